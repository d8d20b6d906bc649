// Package testutil provides shared fixtures for tests.
package testutil

import "github.com/roach88/dichuniv/internal/data"

// ExampleContext returns the three-group dataset used across tests:
// Z=3, N=[10,10,10], Y=[5,7,2], X=[0,1,-1].
//
// At alpha = beta = 0 its log density is -30*log(2) with propto and the
// gradient is (-1, 5).
func ExampleContext() *data.MapContext {
	return data.NewMapContext().
		SetIntScalar("Z", 3).
		SetInts("N", []int{10, 10, 10}).
		SetInts("Y", []int{5, 7, 2}).
		SetReals("X", []float64{0, 1, -1})
}

// EmptyContext returns a dataset with no groups.
func EmptyContext() *data.MapContext {
	return data.NewMapContext().
		SetIntScalar("Z", 0).
		SetInts("N", []int{}).
		SetInts("Y", []int{}).
		SetReals("X", []float64{})
}

// Inits returns an init source holding constrained alpha and beta.
func Inits(alpha, beta float64) *data.MapContext {
	return data.NewMapContext().
		SetRealScalar("alpha", alpha).
		SetRealScalar("beta", beta)
}
