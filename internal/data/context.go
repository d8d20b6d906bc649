package data

import (
	"slices"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// VarContext is a named source of int and real arrays with dimensions.
//
// Ints promote to reals: a name that ContainsInt also ContainsReal, and
// Reals returns its values converted to float64. Scalars have empty Dims.
type VarContext interface {
	ContainsInt(name string) bool
	ContainsReal(name string) bool
	Ints(name string) []int
	Reals(name string) []float64
	Dims(name string) []int
	Names() []string
}

type intVar struct {
	dims []int
	vals []int
}

type realVar struct {
	dims []int
	vals []float64
}

// MapContext is an in-memory VarContext. Names are NFC normalized on both
// set and lookup, so composed and decomposed spellings refer to one variable.
//
// MapContext is not safe for concurrent mutation; build it, then share it
// read-only.
type MapContext struct {
	ints  map[string]intVar
	reals map[string]realVar
}

var _ VarContext = (*MapContext)(nil)

// NewMapContext creates an empty context.
func NewMapContext() *MapContext {
	return &MapContext{
		ints:  make(map[string]intVar),
		reals: make(map[string]realVar),
	}
}

func key(name string) string {
	return norm.NFC.String(name)
}

// SetInt stores an int array with explicit dims (row-major values).
// A later SetReal with the same name replaces it.
func (c *MapContext) SetInt(name string, dims []int, vals []int) *MapContext {
	k := key(name)
	delete(c.reals, k)
	c.ints[k] = intVar{dims: slices.Clone(dims), vals: slices.Clone(vals)}
	return c
}

// SetReal stores a real array with explicit dims (row-major values).
func (c *MapContext) SetReal(name string, dims []int, vals []float64) *MapContext {
	k := key(name)
	delete(c.ints, k)
	c.reals[k] = realVar{dims: slices.Clone(dims), vals: slices.Clone(vals)}
	return c
}

// SetIntScalar stores a scalar int.
func (c *MapContext) SetIntScalar(name string, v int) *MapContext {
	return c.SetInt(name, nil, []int{v})
}

// SetRealScalar stores a scalar real.
func (c *MapContext) SetRealScalar(name string, v float64) *MapContext {
	return c.SetReal(name, nil, []float64{v})
}

// SetInts stores a one-dimensional int array.
func (c *MapContext) SetInts(name string, vals []int) *MapContext {
	return c.SetInt(name, []int{len(vals)}, vals)
}

// SetReals stores a one-dimensional real array.
func (c *MapContext) SetReals(name string, vals []float64) *MapContext {
	return c.SetReal(name, []int{len(vals)}, vals)
}

// ContainsInt reports whether name holds int values.
func (c *MapContext) ContainsInt(name string) bool {
	_, ok := c.ints[key(name)]
	return ok
}

// ContainsReal reports whether name holds real or int values.
func (c *MapContext) ContainsReal(name string) bool {
	k := key(name)
	if _, ok := c.reals[k]; ok {
		return true
	}
	_, ok := c.ints[k]
	return ok
}

// Ints returns a copy of the int values of name, or nil.
func (c *MapContext) Ints(name string) []int {
	if v, ok := c.ints[key(name)]; ok {
		return slices.Clone(v.vals)
	}
	return nil
}

// Reals returns the values of name as float64, or nil.
func (c *MapContext) Reals(name string) []float64 {
	k := key(name)
	if v, ok := c.reals[k]; ok {
		return slices.Clone(v.vals)
	}
	if v, ok := c.ints[k]; ok {
		out := make([]float64, len(v.vals))
		for i, n := range v.vals {
			out[i] = float64(n)
		}
		return out
	}
	return nil
}

// Dims returns the dims of name, or nil if absent or scalar.
func (c *MapContext) Dims(name string) []int {
	k := key(name)
	if v, ok := c.reals[k]; ok {
		return slices.Clone(v.dims)
	}
	if v, ok := c.ints[k]; ok {
		return slices.Clone(v.dims)
	}
	return nil
}

// Names returns all variable names, sorted.
func (c *MapContext) Names() []string {
	names := make([]string, 0, len(c.ints)+len(c.reals))
	for k := range c.ints {
		names = append(names, k)
	}
	for k := range c.reals {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
