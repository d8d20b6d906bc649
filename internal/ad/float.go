package ad

import "math"

// Float evaluates with plain float64 values.
type Float struct{}

var _ Field[float64] = Float{}

func (Float) Const(c float64) float64   { return c }
func (Float) Value(x float64) float64   { return x }
func (Float) Add(x, y float64) float64  { return x + y }
func (Float) Sub(x, y float64) float64  { return x - y }
func (Float) Mul(x, y float64) float64  { return x * y }
func (Float) Div(x, y float64) float64  { return x / y }
func (Float) Neg(x float64) float64     { return -x }
func (Float) Scale(c, x float64) float64 { return c * x }
func (Float) Exp(x float64) float64     { return math.Exp(x) }
func (Float) Log(x float64) float64     { return math.Log(x) }
func (Float) Log1p(x float64) float64   { return math.Log1p(x) }

// Lgamma returns log|Gamma(x)|.
func (Float) Lgamma(x float64) float64 {
	lg, _ := math.Lgamma(x)
	return lg
}
