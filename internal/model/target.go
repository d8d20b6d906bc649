package model

import "math"

// Target adapts a Model to samplers and optimizers that work on plain
// vectors. It fixes the propto and jacobian flags for every call.
type Target struct {
	m        *Model
	propto   bool
	jacobian bool
}

// Target returns a Target over m.
func (m *Model) Target(propto, jacobian bool) *Target {
	return &Target{m: m, propto: propto, jacobian: jacobian}
}

// Dim returns the dimension of the unconstrained space.
func (t *Target) Dim() int { return t.m.NumParams() }

// LogProb returns the log density at x, or NaN if x has the wrong length.
func (t *Target) LogProb(x []float64) float64 {
	if len(x) != t.Dim() {
		return math.NaN()
	}
	lp, err := t.m.LogProb(x, t.propto, t.jacobian)
	if err != nil {
		return math.NaN()
	}
	return lp
}

// LogProbGrad returns the log density at x and writes its gradient into
// grad, which must have length Dim. Wrong lengths give NaN and leave grad
// untouched.
func (t *Target) LogProbGrad(x, grad []float64) float64 {
	if len(x) != t.Dim() || len(grad) != t.Dim() {
		return math.NaN()
	}
	lp, g, err := t.m.LogProbGrad(x, t.propto, t.jacobian)
	if err != nil {
		return math.NaN()
	}
	copy(grad, g)
	return lp
}
