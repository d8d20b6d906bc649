package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Real is a float64 whose JSON form keeps non-finite values. Finite values
// encode as JSON numbers; NaN and the infinities encode as the strings
// "NaN", "+Inf" and "-Inf", the spellings the data sources read back.
type Real float64

// Reals converts a float64 slice. A nil slice stays nil.
func Reals(xs []float64) []Real {
	if xs == nil {
		return nil
	}
	out := make([]Real, len(xs))
	for i, x := range xs {
		out[i] = Real(x)
	}
	return out
}

// Floats converts back to a float64 slice. A nil slice stays nil.
func Floats(rs []Real) []float64 {
	if rs == nil {
		return nil
	}
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = float64(r)
	}
	return out
}

// String returns the shortest decimal form, or the non-finite spelling.
func (r Real) String() string {
	f := float64(r)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (r Real) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte(`"` + r.String() + `"`), nil
	}
	// Same layout as encoding/json: exponent form only for very small or
	// very large magnitudes, with a two-digit minimum exponent trimmed.
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts JSON numbers and
// the non-finite spellings written by MarshalJSON.
func (r *Real) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("real: %w", err)
		}
		switch unq {
		case "NaN", "nan":
			*r = Real(math.NaN())
		case "+Inf", "Inf", "inf", "Infinity":
			*r = Real(math.Inf(1))
		case "-Inf", "-inf", "-Infinity":
			*r = Real(math.Inf(-1))
		default:
			return fmt.Errorf("real: invalid value %q", unq)
		}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("real: %w", err)
	}
	*r = Real(f)
	return nil
}
