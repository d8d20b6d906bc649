package ad

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/num/dual"
)

// Dual evaluates with gonum dual numbers. The Emag part of the result is
// the directional derivative along the seeded direction.
type Dual struct{}

var _ Field[dual.Number] = Dual{}

func (Dual) Const(c float64) dual.Number       { return dual.Number{Real: c} }
func (Dual) Value(x dual.Number) float64       { return x.Real }
func (Dual) Add(x, y dual.Number) dual.Number  { return dual.Add(x, y) }
func (Dual) Sub(x, y dual.Number) dual.Number  { return dual.Sub(x, y) }
func (Dual) Mul(x, y dual.Number) dual.Number  { return dual.Mul(x, y) }
func (Dual) Div(x, y dual.Number) dual.Number  { return dual.Mul(x, dual.Inv(y)) }
func (Dual) Neg(x dual.Number) dual.Number     { return dual.Scale(-1, x) }
func (Dual) Exp(x dual.Number) dual.Number     { return dual.Exp(x) }
func (Dual) Log(x dual.Number) dual.Number     { return dual.Log(x) }

func (Dual) Scale(c float64, x dual.Number) dual.Number { return dual.Scale(c, x) }

// Log1p is not provided by num/dual; d/dx log1p(x) = 1/(1+x).
func (Dual) Log1p(x dual.Number) dual.Number {
	return dual.Number{
		Real: math.Log1p(x.Real),
		Emag: x.Emag / (1 + x.Real),
	}
}

// Lgamma uses the digamma function for the derivative.
func (Dual) Lgamma(x dual.Number) dual.Number {
	lg, _ := math.Lgamma(x.Real)
	if x.Emag == 0 {
		return dual.Number{Real: lg}
	}
	return dual.Number{
		Real: lg,
		Emag: x.Emag * mathext.Digamma(x.Real),
	}
}

// ErrLengthMismatch is returned by SeedDual when the point and the
// direction differ in length.
var ErrLengthMismatch = errors.New("ad: length mismatch")

// SeedDual lifts x into dual numbers whose infinitesimal parts are dir.
func SeedDual(x, dir []float64) ([]dual.Number, error) {
	if len(x) != len(dir) {
		return nil, fmt.Errorf("%w: point has %d entries, direction %d", ErrLengthMismatch, len(x), len(dir))
	}
	out := make([]dual.Number, len(x))
	for i := range x {
		out[i] = dual.Number{Real: x[i], Emag: dir[i]}
	}
	return out, nil
}
