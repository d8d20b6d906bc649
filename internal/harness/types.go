package harness

import "github.com/roach88/dichuniv/internal/ir"

// EvaluationResult is the observed outcome of one Evaluation.
type EvaluationResult struct {
	Theta      []float64    `json:"theta"`
	Propto     bool         `json:"propto"`
	Jacobian   bool         `json:"jacobian"`
	LogDensity float64      `json:"log_density"`
	Gradient   []float64    `json:"gradient,omitempty"`
	Draw       ir.Draw      `json:"draw,omitempty"`
	Error      ir.ErrorCode `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// BuildError is the code model construction failed with, if any.
	BuildError ir.ErrorCode `json:"build_error,omitempty"`

	// Groups is the number of observation groups.
	Groups int `json:"groups"`

	// RunID identifies the store run holding the written draws.
	RunID string `json:"run_id,omitempty"`

	// InitsTheta is the unconstrained init vector, if inits were given.
	InitsTheta []float64 `json:"inits_theta,omitempty"`

	// InitsError is the code unconstraining inits failed with, if any.
	InitsError ir.ErrorCode `json:"inits_error,omitempty"`

	// Evaluations holds one result per scenario evaluation, in order.
	Evaluations []EvaluationResult `json:"evaluations"`

	// StoredDraws is the number of draws read back from the store.
	StoredDraws int `json:"stored_draws"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Evaluations: []EvaluationResult{},
		Errors:      []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
