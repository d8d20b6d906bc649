package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/dichuniv/internal/ir"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"alpha", "beta"}, c.Names())
	assert.Equal(t, [][]int{{}, {}}, c.Dims())
	assert.Equal(t, 2, c.NumParams())
	assert.Len(t, c.Dims(), len(c.Names()))
}

func TestDefault_Sites(t *testing.T) {
	specs := Default().Specs()

	assert.Equal(t, 10, specs[0].Site.Line)
	assert.Equal(t, 11, specs[1].Site.Line)
	assert.Equal(t, "real alpha", specs[0].Decl())
	assert.Equal(t, ir.DomainReal, specs[1].Domain.Kind)
}

func TestParamNames(t *testing.T) {
	c := Default().WithGenerated("p_hat")

	tests := []struct {
		name          string
		tparams, gqs  bool
		constrained   []string
		unconstrained []string
	}{
		{"none", false, false, []string{"alpha", "beta"}, []string{"alpha", "beta"}},
		{"tparams", true, false, []string{"alpha", "beta"}, []string{"alpha", "beta"}},
		{"gqs", false, true, []string{"alpha", "beta", "p_hat"}, []string{"alpha", "beta"}},
		{"both", true, true, []string{"alpha", "beta", "p_hat"}, []string{"alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.constrained, c.ConstrainedParamNames(tt.tparams, tt.gqs))
			assert.Equal(t, tt.unconstrained, c.UnconstrainedParamNames(tt.tparams, tt.gqs))
		})
	}
}

func TestWithGenerated_DoesNotMutate(t *testing.T) {
	base := Default()
	_ = base.WithGenerated("a")

	assert.Empty(t, base.Generated())
	assert.Equal(t, []string{"alpha", "beta"}, base.ConstrainedParamNames(false, true))
}

func TestArrayParams(t *testing.T) {
	c := New(
		ir.ParamSpec{Name: "mu", Domain: ir.Real()},
		ir.ParamSpec{Name: "theta", Domain: ir.Positive(), Dims: []int{2, 3}},
	)

	assert.Equal(t, 7, c.NumParams())
	assert.Equal(t, [][]int{{}, {2, 3}}, c.Dims())
	assert.Equal(t, []string{
		"mu",
		"theta.1.1", "theta.1.2", "theta.1.3",
		"theta.2.1", "theta.2.2", "theta.2.3",
	}, c.ConstrainedParamNames(false, false))
}

func TestSpecs_ReturnsCopy(t *testing.T) {
	c := New(ir.ParamSpec{Name: "v", Domain: ir.Real(), Dims: []int{2}})

	specs := c.Specs()
	specs[0].Dims[0] = 5
	assert.Equal(t, [][]int{{2}}, c.Dims())
}
