package dist

import (
	"math"

	"github.com/roach88/dichuniv/internal/ad"
)

// StudentT returns the log density of a Student-t distribution with nu
// degrees of freedom, location mu and scale sigma, evaluated at x:
//
//	lgamma((nu+1)/2) - lgamma(nu/2) - log(nu*pi)/2 - log(sigma)
//	  - (nu+1)/2 * log(1 + ((x-mu)/sigma)^2 / nu)
//
// With propto the first line is dropped.
func StudentT[T any](f ad.Field[T], x T, nu, mu, sigma float64, propto bool) T {
	z := f.Scale(1/sigma, f.Sub(x, f.Const(mu)))
	lp := f.Scale(-(nu+1)/2, f.Log1p(f.Scale(1/nu, ad.Square(f, z))))
	if propto {
		return lp
	}
	norm := f.Sub(f.Lgamma(f.Const((nu+1)/2)), f.Lgamma(f.Const(nu/2)))
	norm = f.Sub(norm, f.Const(0.5*math.Log(nu*math.Pi)+math.Log(sigma)))
	return f.Add(lp, norm)
}
