package model

import (
	"math"

	"gonum.org/v1/gonum/num/dual"

	"github.com/roach88/dichuniv/internal/ad"
	"github.com/roach88/dichuniv/internal/dist"
	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/transform"
)

// LogDensity returns the joint log density at the unconstrained point theta:
// log-Jacobian (when jacobian is true) plus the binomial-logit likelihood
// plus both priors. With propto, constant terms are dropped.
//
// The only error is a DimensionMismatchError when theta is shorter than
// NumParams. Non-finite inputs give a non-finite result, never an error.
func LogDensity[T any](m *Model, f ad.Field[T], theta []T, propto, jacobian bool) (T, error) {
	lp := f.Const(0)
	params, err := transform.Constrain(m.tr, f, theta, jacobian, &lp)
	if err != nil {
		return f.Const(math.NaN()), err
	}
	alpha, beta := params[0], params[1]

	obs := m.obs
	for i := range obs.Z() {
		eta := f.Add(alpha, f.Scale(obs.X(i), beta))
		lp = f.Add(lp, dist.BinomialLogit(f, obs.N(i), obs.Y(i), eta, propto))
	}

	lp = f.Add(lp, dist.StudentT(f, alpha, AlphaNu, AlphaMu, AlphaSigma, propto))
	lp = f.Add(lp, dist.StudentT(f, beta, BetaNu, BetaMu, BetaSigma, propto))
	return lp, nil
}

// LogProb evaluates LogDensity on float64.
func (m *Model) LogProb(theta []float64, propto, jacobian bool) (float64, error) {
	return LogDensity(m, ad.Float{}, theta, propto, jacobian)
}

// LogProbGrad returns the log density and its gradient with respect to the
// first NumParams entries of theta.
func (m *Model) LogProbGrad(theta []float64, propto, jacobian bool) (float64, []float64, error) {
	n := m.NumParams()
	if len(theta) > n {
		theta = theta[:n]
	}
	lp, err := LogDensity(m, ad.GradField{}, ad.Seed(theta), propto, jacobian)
	if err != nil {
		return math.NaN(), nil, err
	}
	return lp.V, lp.Gradient(n), nil
}

// DirectionalDerivative returns the log density and its derivative along
// dir in one dual-number pass. dir must have the same length as theta.
func (m *Model) DirectionalDerivative(theta, dir []float64, propto, jacobian bool) (float64, float64, error) {
	if len(dir) != len(theta) {
		return math.NaN(), math.NaN(), &ir.DimensionMismatchError{
			Name:     "direction",
			Stage:    ir.StageParams,
			Declared: []int{len(theta)},
			Found:    []int{len(dir)},
		}
	}
	seeded, err := ad.SeedDual(theta, dir)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	lp, err := LogDensity[dual.Number](m, ad.Dual{}, seeded, propto, jacobian)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	return lp.Real, lp.Emag, nil
}
