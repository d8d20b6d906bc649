package ad

// Field is the arithmetic and transcendental capability set a generic
// density needs from its scalar type T.
//
// Value exposes the primal value so generic code can branch on it (for
// example to pick a numerically stable formulation); branching never
// affects derivatives other than selecting the formula.
type Field[T any] interface {
	Const(c float64) T
	Value(x T) float64

	Add(x, y T) T
	Sub(x, y T) T
	Mul(x, y T) T
	Div(x, y T) T
	Neg(x T) T
	Scale(c float64, x T) T

	Exp(x T) T
	Log(x T) T
	Log1p(x T) T
	Lgamma(x T) T
}
