// Package model evaluates the dich_univ joint log density.
//
// The model is a logistic regression on grouped binomial counts:
//
//	Y[i] ~ binomial_logit(N[i], alpha + beta * X[i])
//	alpha ~ student_t(1, 0, 100)
//	beta  ~ student_t(1, 0, 10)
//
// LogDensity is written once over ad.Field and runs on float64 (LogProb),
// on full forward-mode gradients (LogProbGrad) and on dual numbers
// (DirectionalDerivative). A Model is immutable after New; every evaluation
// is a pure function of the caller's vector, so one Model may serve many
// goroutines without locking.
//
// Usage:
//
//	m, err := model.New(ctx, src)
//	lp, grad, err := m.LogProbGrad([]float64{0.1, -0.4}, true, true)
//	draw, err := m.WriteArray([]float64{0.1, -0.4}, true, true)
package model
