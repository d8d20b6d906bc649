// Package data builds the immutable observed dataset of the dich_univ model.
//
// A dataset is read from a VarContext, the key/value source abstraction that
// every loader (in-memory maps, JSON, YAML, CUE files) implements. Reads
// happen in declaration order (Z, N, Y, X) and each read validates presence,
// type and shape before any value is stored:
//
//	src := data.NewMapContext().
//		SetIntScalar("Z", 3).
//		SetInts("N", []int{10, 10, 10}).
//		SetInts("Y", []int{5, 7, 2}).
//		SetReals("X", []float64{0, 1, -1})
//	obs, err := data.New(src)
//
// Beyond shape checks, New enforces 0 <= Y[i] <= N[i]. This is a
// strengthened invariant: the compiled model it mirrors accepted any ints.
package data
