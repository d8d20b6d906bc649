package ad

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Grad is a forward-mode number carrying the value and its gradient with
// respect to every seeded input. A nil D means a zero gradient (a constant).
type Grad struct {
	V float64
	D []float64
}

// GradField evaluates with Grad numbers.
type GradField struct{}

var _ Field[Grad] = GradField{}

// Seed lifts x into independent Grad variables: the i-th result has the
// i-th unit vector as its gradient.
func Seed(x []float64) []Grad {
	out := make([]Grad, len(x))
	for i, v := range x {
		d := make([]float64, len(x))
		d[i] = 1
		out[i] = Grad{V: v, D: d}
	}
	return out
}

// Gradient returns the gradient of g as a dense slice of length n.
func (g Grad) Gradient(n int) []float64 {
	out := make([]float64, n)
	copy(out, g.D)
	return out
}

func (GradField) Const(c float64) Grad { return Grad{V: c} }
func (GradField) Value(x Grad) float64 { return x.V }

func (GradField) Add(x, y Grad) Grad { return Grad{V: x.V + y.V, D: combine(1, x.D, 1, y.D)} }
func (GradField) Sub(x, y Grad) Grad { return Grad{V: x.V - y.V, D: combine(1, x.D, -1, y.D)} }

func (GradField) Mul(x, y Grad) Grad {
	return Grad{V: x.V * y.V, D: combine(y.V, x.D, x.V, y.D)}
}

func (GradField) Div(x, y Grad) Grad {
	v := x.V / y.V
	return Grad{V: v, D: combine(1/y.V, x.D, -v/y.V, y.D)}
}

func (GradField) Neg(x Grad) Grad              { return Grad{V: -x.V, D: scale(-1, x.D)} }
func (GradField) Scale(c float64, x Grad) Grad { return Grad{V: c * x.V, D: scale(c, x.D)} }

func (GradField) Exp(x Grad) Grad {
	v := math.Exp(x.V)
	return Grad{V: v, D: scale(v, x.D)}
}

func (GradField) Log(x Grad) Grad {
	return Grad{V: math.Log(x.V), D: scale(1/x.V, x.D)}
}

func (GradField) Log1p(x Grad) Grad {
	return Grad{V: math.Log1p(x.V), D: scale(1/(1+x.V), x.D)}
}

func (GradField) Lgamma(x Grad) Grad {
	lg, _ := math.Lgamma(x.V)
	if x.D == nil {
		return Grad{V: lg}
	}
	return Grad{V: lg, D: scale(mathext.Digamma(x.V), x.D)}
}

// scale returns c*d, keeping nil as the zero gradient.
func scale(c float64, d []float64) []float64 {
	if d == nil {
		return nil
	}
	out := make([]float64, len(d))
	for i, v := range d {
		out[i] = c * v
	}
	return out
}

// combine returns ca*a + cb*b, treating nil as zero.
func combine(ca float64, a []float64, cb float64, b []float64) []float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case b == nil:
		return scale(ca, a)
	case a == nil:
		return scale(cb, b)
	}
	n := max(len(a), len(b))
	out := make([]float64, n)
	for i := range a {
		out[i] = ca * a[i]
	}
	for i := range b {
		out[i] += cb * b[i]
	}
	return out
}
