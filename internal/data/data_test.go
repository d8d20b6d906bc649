package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dichuniv/internal/ir"
)

func exampleContext() *MapContext {
	return NewMapContext().
		SetIntScalar("Z", 3).
		SetInts("N", []int{10, 10, 10}).
		SetInts("Y", []int{5, 7, 2}).
		SetReals("X", []float64{0, 1, -1})
}

func TestNew_Valid(t *testing.T) {
	obs, err := New(exampleContext())
	require.NoError(t, err)

	assert.Equal(t, 3, obs.Z())
	assert.Equal(t, []int{10, 10, 10}, obs.Trials())
	assert.Equal(t, []int{5, 7, 2}, obs.Successes())
	assert.Equal(t, []float64{0, 1, -1}, obs.Covariate())
	assert.Equal(t, 7, obs.Y(1))
	assert.Equal(t, -1.0, obs.X(2))
}

func TestNew_ZeroGroups(t *testing.T) {
	src := NewMapContext().
		SetIntScalar("Z", 0).
		SetInts("N", []int{}).
		SetInts("Y", []int{}).
		SetReals("X", []float64{})

	obs, err := New(src)
	require.NoError(t, err)
	assert.Equal(t, 0, obs.Z())
}

func TestNew_IntCovariatePromotes(t *testing.T) {
	src := exampleContext().SetInts("X", []int{0, 1, -1})

	obs, err := New(src)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, -1}, obs.Covariate())
}

func TestNew_MissingVariable(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"missing Z", "Z"},
		{"missing N", "N"},
		{"missing Y", "Y"},
		{"missing X", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := exampleContext()
			src := NewMapContext()
			for _, name := range full.Names() {
				if name == tt.missing {
					continue
				}
				if full.ContainsInt(name) {
					src.SetInt(name, full.Dims(name), full.Ints(name))
				} else {
					src.SetReal(name, full.Dims(name), full.Reals(name))
				}
			}

			_, err := New(src)
			require.Error(t, err)
			assert.True(t, ir.IsMissingVariable(err))
			assert.Contains(t, err.Error(), "variable "+tt.missing+" missing")
		})
	}
}

func TestNew_DimensionMismatch(t *testing.T) {
	src := NewMapContext().
		SetIntScalar("Z", 3).
		SetInts("N", []int{10, 10}).
		SetInts("Y", []int{5, 7, 2}).
		SetReals("X", []float64{0, 1, -1})

	_, err := New(src)
	require.Error(t, err)
	require.True(t, ir.IsDimensionMismatch(err))

	var de *ir.DimensionMismatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "N", de.Name)
	assert.Equal(t, []int{3}, de.Declared)
	assert.Equal(t, []int{2}, de.Found)
	assert.Equal(t, SiteN, de.Site)
	assert.Contains(t, err.Error(), "dims declared=(3)")
	assert.Contains(t, err.Error(), "dims found=(2)")
}

func TestNew_ScalarZGivenAsArray(t *testing.T) {
	src := exampleContext().SetInts("Z", []int{3})

	_, err := New(src)
	require.Error(t, err)
	assert.True(t, ir.IsDimensionMismatch(err))
}

func TestNew_TypeMismatch(t *testing.T) {
	src := exampleContext().SetReals("N", []float64{10, 10, 10})

	_, err := New(src)
	require.Error(t, err)
	assert.Equal(t, ir.ErrCodeTypeMismatch, ir.CodeOf(err))
}

func TestNew_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*MapContext)
		varName  string
		index    int
		contains string
	}{
		{
			name:     "negative Z",
			mutate:   func(c *MapContext) { c.SetIntScalar("Z", -1) },
			varName:  "Z",
			index:    -1,
			contains: "Z is -1",
		},
		{
			name:     "negative N",
			mutate:   func(c *MapContext) { c.SetInts("N", []int{10, -1, 10}).SetInts("Y", []int{5, 0, 2}) },
			varName:  "N",
			index:    1,
			contains: "N[2] is -1, but must be >= 0",
		},
		{
			name:     "negative Y",
			mutate:   func(c *MapContext) { c.SetInts("Y", []int{5, 7, -2}) },
			varName:  "Y",
			index:    2,
			contains: "Y[3] is -2, but must be >= 0",
		},
		{
			name:     "Y exceeds N",
			mutate:   func(c *MapContext) { c.SetInts("Y", []int{11, 7, 2}) },
			varName:  "Y",
			index:    0,
			contains: "Y[1] is 11, but must be <= N[1] (10)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := exampleContext()
			tt.mutate(src)

			_, err := New(src)
			require.Error(t, err)

			var ce *ir.ConstraintViolationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.varName, ce.Name)
			assert.Equal(t, tt.index, ce.Index)
			assert.Equal(t, ir.StageData, ce.Stage)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestObserved_Fingerprint(t *testing.T) {
	a, err := New(exampleContext())
	require.NoError(t, err)
	b, err := New(exampleContext())
	require.NoError(t, err)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)

	c, err := New(exampleContext().SetInts("Y", []int{5, 7, 3}))
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestObserved_AccessorsCopy(t *testing.T) {
	obs, err := New(exampleContext())
	require.NoError(t, err)

	n := obs.Trials()
	n[0] = 99
	assert.Equal(t, 10, obs.N(0))
}

func TestMapContext_NFCKeys(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	c := NewMapContext().SetRealScalar(decomposed, 1.5)
	assert.True(t, c.ContainsReal(composed))
	assert.Equal(t, []float64{1.5}, c.Reals(composed))
	assert.Equal(t, []string{composed}, c.Names())
}

func TestMapContext_IntPromotion(t *testing.T) {
	c := NewMapContext().SetInts("k", []int{1, 2})

	assert.True(t, c.ContainsInt("k"))
	assert.True(t, c.ContainsReal("k"))
	assert.Equal(t, []float64{1, 2}, c.Reals("k"))

	c.SetReals("k", []float64{0.5})
	assert.False(t, c.ContainsInt("k"))
	assert.Nil(t, c.Ints("k"))
}
