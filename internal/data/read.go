package data

import (
	"slices"

	"github.com/roach88/dichuniv/internal/ir"
)

// ReadInts validates and returns the int values of name.
//
// Errors, in check order:
//   - MissingVariableError if src has no such name
//   - TypeMismatchError if name holds reals
//   - DimensionMismatchError if the found dims differ from declared
func ReadInts(src VarContext, name, stage string, declared []int, site ir.Site) ([]int, error) {
	if !src.ContainsReal(name) {
		return nil, &ir.MissingVariableError{Name: name, Stage: stage, Site: site}
	}
	if !src.ContainsInt(name) {
		return nil, &ir.TypeMismatchError{Name: name, Stage: stage, Site: site}
	}
	if err := validateDims(src, name, stage, declared, site); err != nil {
		return nil, err
	}
	vals := src.Ints(name)
	if len(vals) != size(declared) {
		return nil, &ir.DimensionMismatchError{Name: name, Stage: stage, Declared: declared, Found: []int{len(vals)}, Site: site}
	}
	return vals, nil
}

// ReadReals validates and returns the real values of name. Int values are
// accepted and promoted.
func ReadReals(src VarContext, name, stage string, declared []int, site ir.Site) ([]float64, error) {
	if !src.ContainsReal(name) {
		return nil, &ir.MissingVariableError{Name: name, Stage: stage, Site: site}
	}
	if err := validateDims(src, name, stage, declared, site); err != nil {
		return nil, err
	}
	vals := src.Reals(name)
	if len(vals) != size(declared) {
		return nil, &ir.DimensionMismatchError{Name: name, Stage: stage, Declared: declared, Found: []int{len(vals)}, Site: site}
	}
	return vals, nil
}

func validateDims(src VarContext, name, stage string, declared []int, site ir.Site) error {
	found := src.Dims(name)
	if len(found) == 0 && len(declared) == 0 {
		return nil
	}
	if !slices.Equal(found, declared) {
		return &ir.DimensionMismatchError{
			Name:     name,
			Stage:    stage,
			Declared: slices.Clone(declared),
			Found:    slices.Clone(found),
			Site:     site,
		}
	}
	return nil
}

func size(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}
