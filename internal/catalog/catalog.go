// Package catalog lists the model's parameters in their fixed order.
//
// The order is the order of the unconstrained vector, of constrained
// output, and of every name listing. It never changes after New.
package catalog

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/dichuniv/internal/ir"
)

// Declaration sites of the parameters block.
var (
	SiteAlpha = ir.Site{Block: "parameters", Line: 10, Decl: "real alpha"}
	SiteBeta  = ir.Site{Block: "parameters", Line: 11, Decl: "real beta"}
)

// Catalog is an ordered, immutable set of parameter declarations plus the
// names of any derived quantities.
type Catalog struct {
	specs     []ir.ParamSpec
	generated []string
}

// New creates a catalog over specs in the given order.
func New(specs ...ir.ParamSpec) *Catalog {
	cloned := make([]ir.ParamSpec, len(specs))
	for i, s := range specs {
		s.Dims = slices.Clone(s.Dims)
		cloned[i] = s
	}
	return &Catalog{specs: cloned}
}

// Default returns the dich_univ catalog: alpha then beta, both unrestricted
// real scalars.
func Default() *Catalog {
	return New(
		ir.ParamSpec{Name: "alpha", Domain: ir.Real(), Site: SiteAlpha},
		ir.ParamSpec{Name: "beta", Domain: ir.Real(), Site: SiteBeta},
	)
}

// WithGenerated returns a copy of c that also lists the named derived
// quantities, after any already registered.
func (c *Catalog) WithGenerated(names ...string) *Catalog {
	return &Catalog{
		specs:     c.specs,
		generated: append(slices.Clone(c.generated), names...),
	}
}

// Specs returns a copy of the parameter declarations.
func (c *Catalog) Specs() []ir.ParamSpec {
	out := make([]ir.ParamSpec, len(c.specs))
	for i, s := range c.specs {
		s.Dims = slices.Clone(s.Dims)
		out[i] = s
	}
	return out
}

// Names returns the parameter names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}

// Dims returns each parameter's dimensions in order. Scalars have an empty,
// non-nil slice.
func (c *Catalog) Dims() [][]int {
	dims := make([][]int, len(c.specs))
	for i, s := range c.specs {
		d := slices.Clone(s.Dims)
		if d == nil {
			d = []int{}
		}
		dims[i] = d
	}
	return dims
}

// NumParams returns the number of unconstrained scalars.
func (c *Catalog) NumParams() int {
	n := 0
	for _, s := range c.specs {
		n += s.Size()
	}
	return n
}

// Generated returns the derived quantity names.
func (c *Catalog) Generated() []string {
	return slices.Clone(c.generated)
}

// ConstrainedParamNames returns one flat name per constrained scalar, e.g.
// "alpha" or "theta.2.1" (1-based, row-major). Derived quantities follow
// when includeGQs is true. The model has no transformed parameters, so
// includeTparams adds nothing.
func (c *Catalog) ConstrainedParamNames(includeTparams, includeGQs bool) []string {
	var names []string
	for _, s := range c.specs {
		names = append(names, flatNames(s.Name, s.Dims)...)
	}
	if includeGQs {
		names = append(names, c.generated...)
	}
	return names
}

// UnconstrainedParamNames returns one flat name per unconstrained scalar.
// All domains here are one-to-one per element, so the names match the
// constrained parameter names.
func (c *Catalog) UnconstrainedParamNames(includeTparams, includeGQs bool) []string {
	var names []string
	for _, s := range c.specs {
		names = append(names, flatNames(s.Name, s.Dims)...)
	}
	return names
}

// flatNames expands name over dims in row-major order.
func flatNames(name string, dims []int) []string {
	if len(dims) == 0 {
		return []string{name}
	}
	size := 1
	for _, d := range dims {
		size *= d
	}
	out := make([]string, 0, size)
	idx := make([]int, len(dims))
	for range size {
		var b strings.Builder
		b.WriteString(name)
		for _, i := range idx {
			b.WriteString(".")
			b.WriteString(strconv.Itoa(i + 1))
		}
		out = append(out, b.String())
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < dims[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out
}
