package data

import (
	"fmt"
	"slices"

	"github.com/roach88/dichuniv/internal/ir"
)

// Declaration sites of the data block.
var (
	SiteZ = ir.Site{Block: "data", Line: 3, Decl: "int Z"}
	SiteN = ir.Site{Block: "data", Line: 4, Decl: "int N[Z]"}
	SiteY = ir.Site{Block: "data", Line: 5, Decl: "int Y[Z]"}
	SiteX = ir.Site{Block: "data", Line: 6, Decl: "vector[Z] X"}
)

// Observed is the validated dataset: Z groups, each with N[i] trials,
// Y[i] successes and covariate X[i].
//
// Observed is immutable after New returns and safe for concurrent reads.
type Observed struct {
	z int
	n []int
	y []int
	x []float64
}

// New reads and validates Z, N, Y and X from src, in that order.
//
// Structural errors (missing key, wrong type, wrong shape) are reported for
// the first offending variable. Once all four are read, counts are checked:
// N[i] >= 0 and 0 <= Y[i] <= N[i], reported as ConstraintViolationError.
func New(src VarContext) (*Observed, error) {
	zs, err := ReadInts(src, "Z", ir.StageData, nil, SiteZ)
	if err != nil {
		return nil, err
	}
	z := zs[0]
	if z < 0 {
		return nil, &ir.ConstraintViolationError{
			Name:       "Z",
			Stage:      ir.StageData,
			Index:      -1,
			Value:      float64(z),
			Constraint: ">= 0 (size of N)",
			Site:       SiteN,
		}
	}

	dims := []int{z}
	n, err := ReadInts(src, "N", ir.StageData, dims, SiteN)
	if err != nil {
		return nil, err
	}
	y, err := ReadInts(src, "Y", ir.StageData, dims, SiteY)
	if err != nil {
		return nil, err
	}
	x, err := ReadReals(src, "X", ir.StageData, dims, SiteX)
	if err != nil {
		return nil, err
	}

	for i := range z {
		if n[i] < 0 {
			return nil, &ir.ConstraintViolationError{
				Name: "N", Stage: ir.StageData, Index: i,
				Value: float64(n[i]), Constraint: ">= 0", Site: SiteN,
			}
		}
		if y[i] < 0 {
			return nil, &ir.ConstraintViolationError{
				Name: "Y", Stage: ir.StageData, Index: i,
				Value: float64(y[i]), Constraint: ">= 0", Site: SiteY,
			}
		}
		if y[i] > n[i] {
			return nil, &ir.ConstraintViolationError{
				Name: "Y", Stage: ir.StageData, Index: i,
				Value: float64(y[i]), Constraint: fmt.Sprintf("<= N[%d] (%d)", i+1, n[i]), Site: SiteY,
			}
		}
	}

	return &Observed{z: z, n: n, y: y, x: x}, nil
}

// Z returns the number of groups.
func (o *Observed) Z() int { return o.z }

// N returns the trial count of group i.
func (o *Observed) N(i int) int { return o.n[i] }

// Y returns the success count of group i.
func (o *Observed) Y(i int) int { return o.y[i] }

// X returns the covariate of group i.
func (o *Observed) X(i int) float64 { return o.x[i] }

// Trials returns a copy of N.
func (o *Observed) Trials() []int { return slices.Clone(o.n) }

// Successes returns a copy of Y.
func (o *Observed) Successes() []int { return slices.Clone(o.y) }

// Covariate returns a copy of X.
func (o *Observed) Covariate() []float64 { return slices.Clone(o.x) }

// Fingerprint returns a content-addressed ID of the dataset.
func (o *Observed) Fingerprint() (string, error) {
	return ir.DataFingerprint(map[string]any{
		"Z": o.z,
		"N": o.n,
		"Y": o.y,
		"X": o.x,
	})
}
