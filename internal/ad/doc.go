// Package ad provides the numeric capability set the log-density is written
// against, with three implementations:
//
//   - [Float]: plain float64 evaluation.
//   - [Dual]: forward-mode dual numbers (gonum num/dual), one directional
//     derivative per evaluation.
//   - [GradField]: forward-mode numbers carrying a full gradient vector, so a
//     single evaluation yields the value and every partial derivative.
//
// A density is written once as a generic function over Field[T] and
// instantiated with whichever implementation the caller needs:
//
//	lp := logDensity(ad.Float{}, theta)             // value only
//	g := logDensity(ad.GradField{}, ad.Seed(theta)) // value and gradient
//
// All implementations are stateless and safe for concurrent use.
package ad
