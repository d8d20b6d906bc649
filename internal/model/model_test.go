package model

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/dichuniv/internal/data"
	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/testutil"
)

func newExampleModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	m, err := New(context.Background(), testutil.ExampleContext(), opts...)
	require.NoError(t, err)
	return m
}

func logChoose(n, k float64) float64 {
	a, _ := math.Lgamma(n + 1)
	b, _ := math.Lgamma(k + 1)
	c, _ := math.Lgamma(n - k + 1)
	return a - b - c
}

func TestLogProb_ExampleAtOrigin(t *testing.T) {
	m := newExampleModel(t)

	lp, err := m.LogProb([]float64{0, 0}, true, true)
	require.NoError(t, err)
	assert.InDelta(t, -30*math.Ln2, lp, 1e-12)

	full, err := m.LogProb([]float64{0, 0}, false, true)
	require.NoError(t, err)
	want := -30*math.Ln2 - math.Log(100*math.Pi) - math.Log(10*math.Pi) +
		logChoose(10, 5) + logChoose(10, 7) + logChoose(10, 2)
	assert.InDelta(t, want, full, 1e-10)
	assert.InDelta(t, -15.868047147415512, full, 1e-10)
}

func TestLogProb_JacobianIsZeroForRealDomains(t *testing.T) {
	m := newExampleModel(t)
	theta := []float64{0.3, -1.2}

	with, err := m.LogProb(theta, false, true)
	require.NoError(t, err)
	without, err := m.LogProb(theta, false, false)
	require.NoError(t, err)
	assert.Equal(t, with, without)
}

func TestLogProb_NoGroupsIsPriorsOnly(t *testing.T) {
	m, err := New(context.Background(), testutil.EmptyContext())
	require.NoError(t, err)

	alpha, beta := 1.5, -0.5
	lp, err := m.LogProb([]float64{alpha, beta}, false, true)
	require.NoError(t, err)

	want := distuv.StudentsT{Mu: 0, Sigma: 100, Nu: 1}.LogProb(alpha) +
		distuv.StudentsT{Mu: 0, Sigma: 10, Nu: 1}.LogProb(beta)
	assert.InDelta(t, want, lp, 1e-12)
}

func TestLogProb_MatchesDirectSum(t *testing.T) {
	m := newExampleModel(t)
	alpha, beta := -0.4, 0.9
	obs := m.Observed()

	var want float64
	for i := range obs.Z() {
		p := 1 / (1 + math.Exp(-(alpha + beta*obs.X(i))))
		want += distuv.Binomial{N: float64(obs.N(i)), P: p}.LogProb(float64(obs.Y(i)))
	}
	want += distuv.StudentsT{Mu: 0, Sigma: 100, Nu: 1}.LogProb(alpha)
	want += distuv.StudentsT{Mu: 0, Sigma: 10, Nu: 1}.LogProb(beta)

	lp, err := m.LogProb([]float64{alpha, beta}, false, true)
	require.NoError(t, err)
	assert.InDelta(t, want, lp, 1e-9)
}

func TestLogProb_IncreasesWithSuccessesWhenEtaPositive(t *testing.T) {
	prev := math.Inf(-1)
	for y := 0; y <= 10; y++ {
		src := data.NewMapContext().
			SetIntScalar("Z", 1).
			SetInts("N", []int{10}).
			SetInts("Y", []int{y}).
			SetReals("X", []float64{2})
		m, err := New(context.Background(), src)
		require.NoError(t, err)

		lp, err := m.LogProb([]float64{0, 0.5}, true, true)
		require.NoError(t, err)
		assert.Greater(t, lp, prev, "y=%d", y)
		prev = lp
	}
}

func TestLogProb_FiniteForExtremeEta(t *testing.T) {
	m := newExampleModel(t)

	for _, theta := range [][]float64{
		{1e6, 0},
		{-1e6, 0},
		{0, 1e6},
		{0, -1e6},
	} {
		lp, err := m.LogProb(theta, false, true)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(lp) || math.IsInf(lp, 0), "theta=%v lp=%v", theta, lp)

		lp, grad, err := m.LogProbGrad(theta, true, true)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(lp) || math.IsInf(lp, 0), "theta=%v", theta)
		for _, g := range grad {
			assert.False(t, math.IsNaN(g) || math.IsInf(g, 0), "theta=%v grad=%v", theta, grad)
		}
	}
}

func TestLogProb_NonFinitePropagates(t *testing.T) {
	m := newExampleModel(t)

	lp, err := m.LogProb([]float64{math.NaN(), 0}, true, true)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(lp))

	lp, err = m.LogProb([]float64{0, math.Inf(1)}, true, true)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(lp) || math.IsInf(lp, -1), "lp=%v", lp)
}

func TestLogProb_ShortVector(t *testing.T) {
	m := newExampleModel(t)

	_, err := m.LogProb([]float64{0}, true, true)
	require.Error(t, err)
	assert.True(t, ir.IsDimensionMismatch(err))

	_, _, err = m.LogProbGrad(nil, true, true)
	assert.True(t, ir.IsDimensionMismatch(err))
}

func TestLogProbGrad_AtOrigin(t *testing.T) {
	m := newExampleModel(t)

	lp, grad, err := m.LogProbGrad([]float64{0, 0}, true, true)
	require.NoError(t, err)
	assert.InDelta(t, -30*math.Ln2, lp, 1e-12)
	assert.InDeltaSlice(t, []float64{-1, 5}, grad, 1e-12)
}

func TestLogProbGrad_MatchesFiniteDifference(t *testing.T) {
	m := newExampleModel(t)

	for _, theta := range [][]float64{
		{0.2, -0.7},
		{-3, 2.5},
		{40, -15},
	} {
		for _, propto := range []bool{true, false} {
			_, grad, err := m.LogProbGrad(theta, propto, true)
			require.NoError(t, err)

			want := fd.Gradient(nil, func(x []float64) float64 {
				lp, err := m.LogProb(x, propto, true)
				require.NoError(t, err)
				return lp
			}, theta, &fd.Settings{Formula: fd.Central})

			assert.InDeltaSlice(t, want, grad, 1e-5, "theta=%v propto=%v", theta, propto)
		}
	}
}

func TestDirectionalDerivative(t *testing.T) {
	m := newExampleModel(t)
	theta := []float64{0.4, -0.1}
	dir := []float64{0.6, -0.8}

	lp, d, err := m.DirectionalDerivative(theta, dir, false, true)
	require.NoError(t, err)

	want, grad, err := m.LogProbGrad(theta, false, true)
	require.NoError(t, err)
	assert.InDelta(t, want, lp, 1e-12)
	assert.InDelta(t, floats.Dot(grad, dir), d, 1e-10)

	_, _, err = m.DirectionalDerivative(theta, []float64{1}, false, true)
	assert.True(t, ir.IsDimensionMismatch(err))
}

func TestLogProb_Concurrent(t *testing.T) {
	m := newExampleModel(t)

	points := make([][]float64, 64)
	want := make([]float64, len(points))
	for i := range points {
		points[i] = []float64{float64(i)/16 - 2, 1 - float64(i)/32}
		lp, err := m.LogProb(points[i], false, true)
		require.NoError(t, err)
		want[i] = lp
	}

	got := make([]float64, len(points))
	var g errgroup.Group
	g.SetLimit(8)
	for i := range points {
		g.Go(func() error {
			lp, _, err := m.LogProbGrad(points[i], false, true)
			got[i] = lp
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestNew_DataErrors(t *testing.T) {
	src := testutil.ExampleContext()
	src = data.NewMapContext().
		SetIntScalar("Z", 3).
		SetInts("N", src.Ints("N")).
		SetInts("Y", src.Ints("Y"))

	_, err := New(context.Background(), src)
	require.Error(t, err)
	assert.True(t, ir.IsMissingVariable(err))

	var me *ir.MissingVariableError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "X", me.Name)

	_, err = New(context.Background(), testutil.ExampleContext().SetInts("N", []int{10, 10}))
	require.Error(t, err)
	assert.True(t, ir.IsDimensionMismatch(err))
}

func TestNew_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := newExampleModel(t, WithLogger(logger))
	assert.Equal(t, "dich_univ", m.Name())
	assert.Contains(t, buf.String(), "model built")
	assert.Contains(t, buf.String(), "z=3")
}

func TestTransformInits(t *testing.T) {
	m := newExampleModel(t)

	theta, err := m.TransformInits(testutil.Inits(0.25, -1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, -1}, theta)

	_, err = m.TransformInits(data.NewMapContext().SetRealScalar("beta", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variable alpha missing")
}

func TestIntrospection(t *testing.T) {
	m := newExampleModel(t)

	assert.Equal(t, 2, m.NumParams())
	assert.Equal(t, []string{"alpha", "beta"}, m.ConstrainedParamNames(true, true))
	assert.Equal(t, []string{"alpha", "beta"}, m.UnconstrainedParamNames(true, true))
	assert.Equal(t, [][]int{{}, {}}, m.Catalog().Dims())
}
