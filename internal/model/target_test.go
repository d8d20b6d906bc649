package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// logProber is the contract generic samplers evaluate.
type logProber interface {
	LogProb(x []float64) float64
	Dim() int
}

var _ logProber = (*Target)(nil)

func TestTarget_LogProb(t *testing.T) {
	m := newExampleModel(t)
	target := m.Target(true, true)

	assert.Equal(t, 2, target.Dim())
	assert.InDelta(t, -30*math.Ln2, target.LogProb([]float64{0, 0}), 1e-12)
	assert.True(t, math.IsNaN(target.LogProb([]float64{0})))
	assert.True(t, math.IsNaN(target.LogProb([]float64{0, 0, 0})))
}

func TestTarget_LogProbGrad(t *testing.T) {
	m := newExampleModel(t)
	target := m.Target(true, true)

	grad := make([]float64, 2)
	lp := target.LogProbGrad([]float64{0, 0}, grad)
	assert.InDelta(t, -30*math.Ln2, lp, 1e-12)
	assert.InDeltaSlice(t, []float64{-1, 5}, grad, 1e-12)

	short := []float64{7}
	assert.True(t, math.IsNaN(target.LogProbGrad([]float64{0, 0}, short)))
	assert.Equal(t, []float64{7}, short)
}

func TestTarget_DrivesOptimizer(t *testing.T) {
	m := newExampleModel(t)
	target := m.Target(true, true)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return -target.LogProb(x)
		},
		Grad: func(grad, x []float64) {
			target.LogProbGrad(x, grad)
			floats.Scale(-1, grad)
		},
	}

	result, err := optimize.Minimize(problem, []float64{0, 0}, nil, &optimize.BFGS{})
	require.NoError(t, err)

	grad := make([]float64, 2)
	target.LogProbGrad(result.X, grad)
	assert.Less(t, floats.Norm(grad, 2), 1e-4)
}
