package transform

import (
	"math"

	"github.com/roach88/dichuniv/internal/ad"
	"github.com/roach88/dichuniv/internal/ir"
)

// ConstrainScalar maps x onto d. When lp is non-nil the log absolute
// derivative of the map is added to it.
func ConstrainScalar[T any](f ad.Field[T], d ir.Domain, x T, lp *T) T {
	switch d.Kind {
	case ir.DomainLower:
		if lp != nil {
			*lp = f.Add(*lp, x)
		}
		return f.Add(f.Const(d.Lower), f.Exp(x))
	case ir.DomainUpper:
		if lp != nil {
			*lp = f.Add(*lp, x)
		}
		return f.Sub(f.Const(d.Upper), f.Exp(x))
	case ir.DomainInterval:
		width := d.Upper - d.Lower
		if lp != nil {
			jac := f.Add(f.Const(math.Log(width)), f.Add(ad.LogInvLogit(f, x), ad.Log1mInvLogit(f, x)))
			*lp = f.Add(*lp, jac)
		}
		return f.Add(f.Const(d.Lower), f.Scale(width, ad.InvLogit(f, x)))
	default:
		return x
	}
}

// UnconstrainScalar is the inverse of ConstrainScalar. v must lie in d;
// values on a bound map to an infinite unconstrained value.
func UnconstrainScalar(d ir.Domain, v float64) float64 {
	switch d.Kind {
	case ir.DomainLower:
		return math.Log(v - d.Lower)
	case ir.DomainUpper:
		return math.Log(d.Upper - v)
	case ir.DomainInterval:
		u := (v - d.Lower) / (d.Upper - d.Lower)
		return math.Log(u) - math.Log1p(-u)
	default:
		return v
	}
}
