package transform

import (
	"fmt"

	"github.com/roach88/dichuniv/internal/ad"
	"github.com/roach88/dichuniv/internal/catalog"
	"github.com/roach88/dichuniv/internal/data"
	"github.com/roach88/dichuniv/internal/ir"
)

// Transform applies the bijections for every parameter of a catalog.
// It holds no mutable state and is safe for concurrent use.
type Transform struct {
	specs []ir.ParamSpec
	size  int
}

// New creates a Transform over the parameters of c.
func New(c *catalog.Catalog) *Transform {
	return &Transform{specs: c.Specs(), size: c.NumParams()}
}

// Size returns the length of the unconstrained vector.
func (t *Transform) Size() int { return t.size }

// Unconstrain reads every parameter from src by name, in catalog order, and
// returns the flat unconstrained vector.
//
// Errors:
//   - MissingVariableError if a parameter is absent
//   - DimensionMismatchError if its shape differs from the declaration
//   - ConstraintViolationError, wrapped as "error transforming variable
//     <name>", if a value lies outside the domain
func (t *Transform) Unconstrain(src data.VarContext) ([]float64, error) {
	out := make([]float64, 0, t.size)
	for _, spec := range t.specs {
		vals, err := data.ReadReals(src, spec.Name, ir.StageInit, spec.Dims, spec.Site)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if !spec.Domain.Contains(v) {
				index := i
				if len(spec.Dims) == 0 {
					index = -1
				}
				return nil, fmt.Errorf("error transforming variable %s: %w", spec.Name, &ir.ConstraintViolationError{
					Name:       spec.Name,
					Stage:      ir.StageInit,
					Index:      index,
					Value:      v,
					Constraint: constraintText(spec.Domain),
					Site:       spec.Site,
				})
			}
			out = append(out, UnconstrainScalar(spec.Domain, v))
		}
	}
	return out, nil
}

// Constrain maps the first Size() entries of flat into constrained space,
// in catalog order. When jacobian is true the log-Jacobian of every map is
// added to *lp. The only error is a DimensionMismatchError when flat is too
// short; extra trailing entries are ignored.
func Constrain[T any](t *Transform, f ad.Field[T], flat []T, jacobian bool, lp *T) ([]T, error) {
	if len(flat) < t.size {
		return nil, &ir.DimensionMismatchError{
			Name:     "params_r",
			Stage:    ir.StageParams,
			Declared: []int{t.size},
			Found:    []int{len(flat)},
		}
	}
	acc := lp
	if !jacobian {
		acc = nil
	}
	out := make([]T, t.size)
	for i := range t.size {
		out[i] = ConstrainScalar(f, t.domainAt(i), flat[i], acc)
	}
	return out, nil
}

// domainAt returns the domain of the i-th flat scalar.
func (t *Transform) domainAt(i int) ir.Domain {
	for _, spec := range t.specs {
		if i < spec.Size() {
			return spec.Domain
		}
		i -= spec.Size()
	}
	return ir.Real()
}

func constraintText(d ir.Domain) string {
	switch d.Kind {
	case ir.DomainLower:
		return fmt.Sprintf(">= %g", d.Lower)
	case ir.DomainUpper:
		return fmt.Sprintf("<= %g", d.Upper)
	case ir.DomainInterval:
		return fmt.Sprintf("in [%g, %g]", d.Lower, d.Upper)
	default:
		return "real"
	}
}
