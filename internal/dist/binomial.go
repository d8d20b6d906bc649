package dist

import (
	"github.com/roach88/dichuniv/internal/ad"
)

// BinomialLogit returns the log probability of y successes in n trials with
// log-odds eta:
//
//	y*log(inv_logit(eta)) + (n-y)*log(1-inv_logit(eta)) [+ log_choose(n, y)]
//
// which equals y*eta - n*log(1+exp(eta)) but never forms exp(eta) directly,
// so it stays finite for |eta| far beyond the float64 exp range. Terms with a
// zero count are skipped, so y == n with eta = +Inf yields 0, not NaN.
func BinomialLogit[T any](f ad.Field[T], n, y int, eta T, propto bool) T {
	lp := f.Const(0)
	if y != 0 {
		lp = f.Add(lp, f.Scale(float64(y), ad.LogInvLogit(f, eta)))
	}
	if n-y != 0 {
		lp = f.Add(lp, f.Scale(float64(n-y), ad.Log1mInvLogit(f, eta)))
	}
	if !propto {
		lp = f.Add(lp, LogChoose(f, f.Const(float64(n)), f.Const(float64(y))))
	}
	return lp
}

// LogChoose returns log(n choose k) = lgamma(n+1) - lgamma(k+1) - lgamma(n-k+1).
func LogChoose[T any](f ad.Field[T], n, k T) T {
	one := f.Const(1)
	return f.Sub(
		f.Sub(f.Lgamma(f.Add(n, one)), f.Lgamma(f.Add(k, one))),
		f.Lgamma(f.Add(f.Sub(n, k), one)),
	)
}
