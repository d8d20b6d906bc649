package ad

// Softplus computes log(1 + exp(x)) without overflow for large positive x
// or underflow for large negative x.
func Softplus[T any](f Field[T], x T) T {
	if f.Value(x) > 0 {
		return f.Add(x, f.Log1p(f.Exp(f.Neg(x))))
	}
	return f.Log1p(f.Exp(x))
}

// InvLogit computes 1 / (1 + exp(-x)).
func InvLogit[T any](f Field[T], x T) T {
	one := f.Const(1)
	if f.Value(x) >= 0 {
		return f.Div(one, f.Add(one, f.Exp(f.Neg(x))))
	}
	e := f.Exp(x)
	return f.Div(e, f.Add(one, e))
}

// LogInvLogit computes log(inv_logit(x)).
func LogInvLogit[T any](f Field[T], x T) T {
	return f.Neg(Softplus(f, f.Neg(x)))
}

// Log1mInvLogit computes log(1 - inv_logit(x)).
func Log1mInvLogit[T any](f Field[T], x T) T {
	return f.Neg(Softplus(f, x))
}

// Square computes x*x.
func Square[T any](f Field[T], x T) T {
	return f.Mul(x, x)
}

// Sum adds xs left to right; the empty sum is zero.
func Sum[T any](f Field[T], xs []T) T {
	acc := f.Const(0)
	for _, x := range xs {
		acc = f.Add(acc, x)
	}
	return acc
}
