package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// DomainKind names the support of a parameter in constrained space.
type DomainKind string

const (
	// DomainReal is the whole real line; the transform is the identity.
	DomainReal DomainKind = "real"
	// DomainLower is [Lower, +inf); unconstrained via log(x - Lower).
	DomainLower DomainKind = "lower"
	// DomainUpper is (-inf, Upper]; unconstrained via log(Upper - x).
	DomainUpper DomainKind = "upper"
	// DomainInterval is [Lower, Upper]; unconstrained via logit.
	DomainInterval DomainKind = "interval"
)

// Domain is the declared support of a parameter.
type Domain struct {
	Kind  DomainKind `json:"kind"`
	Lower float64    `json:"lower,omitempty"`
	Upper float64    `json:"upper,omitempty"`
}

// Real returns the unrestricted domain.
func Real() Domain { return Domain{Kind: DomainReal} }

// Positive returns [0, +inf).
func Positive() Domain { return Domain{Kind: DomainLower} }

// LowerBounded returns [lb, +inf).
func LowerBounded(lb float64) Domain { return Domain{Kind: DomainLower, Lower: lb} }

// UpperBounded returns (-inf, ub].
func UpperBounded(ub float64) Domain { return Domain{Kind: DomainUpper, Upper: ub} }

// Interval returns [lb, ub]. Panics if lb >= ub.
func Interval(lb, ub float64) Domain {
	if !(lb < ub) {
		panic(fmt.Sprintf("ir: invalid interval [%v, %v]", lb, ub))
	}
	return Domain{Kind: DomainInterval, Lower: lb, Upper: ub}
}

// Contains reports whether v lies in the domain. Bounds are inclusive;
// NaN is only accepted by the unrestricted domain.
func (d Domain) Contains(v float64) bool {
	switch d.Kind {
	case DomainLower:
		return v >= d.Lower
	case DomainUpper:
		return v <= d.Upper
	case DomainInterval:
		return v >= d.Lower && v <= d.Upper
	default:
		return true
	}
}

// String renders the domain as a constraint, e.g. "<lower=0,upper=1>".
func (d Domain) String() string {
	switch d.Kind {
	case DomainLower:
		return "<lower=" + formatBound(d.Lower) + ">"
	case DomainUpper:
		return "<upper=" + formatBound(d.Upper) + ">"
	case DomainInterval:
		return "<lower=" + formatBound(d.Lower) + ",upper=" + formatBound(d.Upper) + ">"
	default:
		return ""
	}
}

func formatBound(v float64) string {
	if math.IsInf(v, 0) {
		if v > 0 {
			return "inf"
		}
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParamSpec declares one named parameter.
type ParamSpec struct {
	Name   string `json:"name"`
	Domain Domain `json:"domain"`
	Dims   []int  `json:"dims"` // empty for scalars
	Site   Site   `json:"-"`
}

// Size returns the number of scalars the parameter occupies.
func (p ParamSpec) Size() int {
	n := 1
	for _, d := range p.Dims {
		n *= d
	}
	return n
}

// Decl renders the declaration, e.g. "real<lower=0> sigma".
func (p ParamSpec) Decl() string {
	var b strings.Builder
	b.WriteString("real")
	b.WriteString(p.Domain.String())
	b.WriteString(" ")
	b.WriteString(p.Name)
	if len(p.Dims) > 0 {
		dims := make([]string, len(p.Dims))
		for i, d := range p.Dims {
			dims[i] = strconv.Itoa(d)
		}
		b.WriteString("[" + strings.Join(dims, ",") + "]")
	}
	return b.String()
}

// NamedValue is one constrained scalar in an output draw.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type namedValueJSON struct {
	Name  string `json:"name"`
	Value Real   `json:"value"`
}

// MarshalJSON implements json.Marshaler. Non-finite values are spelled as
// strings (see Real).
func (v NamedValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(namedValueJSON{Name: v.Name, Value: Real(v.Value)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *NamedValue) UnmarshalJSON(b []byte) error {
	var raw namedValueJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v.Name, v.Value = raw.Name, float64(raw.Value)
	return nil
}

// Draw is an ordered set of constrained values, in catalog order followed by
// any derived quantities.
type Draw []NamedValue

// Names returns the value names in order.
func (d Draw) Names() []string {
	names := make([]string, len(d))
	for i, v := range d {
		names[i] = v.Name
	}
	return names
}

// Values returns the numeric values in order.
func (d Draw) Values() []float64 {
	vals := make([]float64, len(d))
	for i, v := range d {
		vals[i] = v.Value
	}
	return vals
}

// Lookup returns the value with the given name.
func (d Draw) Lookup(name string) (float64, bool) {
	for _, v := range d {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}
