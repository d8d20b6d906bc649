// Package transform maps parameters between constrained and unconstrained
// space.
//
// Each domain has a smooth bijection from the real line:
//
//	real            x
//	[lb, inf)       lb + exp(x)
//	(-inf, ub]      ub - exp(x)
//	[lb, ub]        lb + (ub - lb) * inv_logit(x)
//
// Constrain is generic over ad.Field so the same code runs on float64 and on
// autodiff numbers, and optionally adds log|dy/dx| to a caller-owned
// accumulator. Unconstrain reads constrained values from a data.VarContext
// and applies the inverse maps in the same catalog order.
package transform
