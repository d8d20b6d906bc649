package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/roach88/dichuniv/internal/data"
	"github.com/roach88/dichuniv/internal/datasource"
	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/model"
	"github.com/roach88/dichuniv/internal/store"
	"github.com/roach88/dichuniv/internal/testutil"
)

// Harness runs scenarios against a model and a private draw store.
type Harness struct {
	model  *model.Model
	store  *store.Store
	runID  string
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with a
// fixed run ID generator so results are reproducible.
//
// Execution flow:
//  1. Load the dataset and build the model (or check ExpectError)
//  2. Unconstrain inits, if given
//  3. Evaluate every point, writing successful draws to the store
//  4. Read the draws back and return the result
//
// The returned error is for harness failures (unreadable data file, store
// errors); expectation mismatches are recorded in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	src, err := loadData(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()

	m, err := model.New(ctx, src, model.WithLogger(logger))
	if err != nil {
		code := codeOf(err)
		result.BuildError = code
		if scenario.ExpectError == "" {
			result.AddError(fmt.Sprintf("build: unexpected error: %v", err))
		} else if code != scenario.ExpectError {
			result.AddError(fmt.Sprintf("build: expected error %s, got %s (%v)", scenario.ExpectError, code, err))
		}
		return result, nil
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("build: expected error %s, got none", scenario.ExpectError))
		return result, nil
	}
	result.Groups = m.Observed().Z()

	st, err := store.Open(":memory:", store.WithRunIDGenerator(testutil.NewFixedRunIDGenerator("golden")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	fingerprint, err := m.Observed().Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint data: %w", err)
	}
	run, err := st.CreateRun(ctx, fingerprint, m.ConstrainedParamNames(true, true))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	result.RunID = run.ID

	h := &Harness{model: m, store: st, runID: run.ID, logger: logger}

	if scenario.Inits != nil {
		if err := h.executeInits(scenario.Inits, result); err != nil {
			return nil, err
		}
	}

	for i, ev := range scenario.Evaluations {
		if err := h.executeEvaluation(ctx, i, ev, result); err != nil {
			return nil, err
		}
	}

	draws, err := st.ReadDraws(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("read draws: %w", err)
	}
	result.StoredDraws = len(draws)

	return result, nil
}

func loadData(s *Scenario) (*data.MapContext, error) {
	if s.DataFile != "" {
		src, err := datasource.Load(s.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load data: %w", err)
		}
		return src, nil
	}
	src, err := datasource.FromTree(s.Name, s.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to load inline data: %w", err)
	}
	return src, nil
}

func (h *Harness) executeInits(step *InitsStep, result *Result) error {
	src, err := datasource.FromTree("inits", step.Values)
	if err != nil {
		return fmt.Errorf("failed to load inits: %w", err)
	}

	theta, err := h.model.TransformInits(src)
	if err != nil {
		result.InitsError = codeOf(err)
		if step.Error == "" {
			result.AddError(fmt.Sprintf("inits: unexpected error: %v", err))
		} else if result.InitsError != step.Error {
			result.AddError(fmt.Sprintf("inits: expected error %s, got %s", step.Error, result.InitsError))
		}
		return nil
	}

	result.InitsTheta = theta
	if step.Error != "" {
		result.AddError(fmt.Sprintf("inits: expected error %s, got none", step.Error))
		return nil
	}
	if msg := compareSlice("inits: theta", step.Theta, theta, DefaultTolerance); msg != "" {
		result.AddError(msg)
	}
	return nil
}

func (h *Harness) executeEvaluation(ctx context.Context, index int, ev Evaluation, result *Result) error {
	er := EvaluationResult{
		Theta:    ev.Theta,
		Propto:   ev.Propto,
		Jacobian: ev.Jacobian,
	}

	lp, grad, err := h.model.LogProbGrad(ev.Theta, ev.Propto, ev.Jacobian)
	if err == nil {
		var draw ir.Draw
		draw, err = h.model.WriteArray(ev.Theta, true, true)
		if err == nil {
			er.LogDensity = lp
			er.Gradient = grad
			er.Draw = draw
		}
	}
	if err != nil {
		er.LogDensity = math.NaN()
		er.Error = codeOf(err)
	}
	result.Evaluations = append(result.Evaluations, er)
	h.logger.Debug("evaluated", "index", index, "log_density", er.LogDensity, "error", er.Error)

	if er.Error == "" && allFinite(er.Draw.Values()) {
		if _, err := h.store.WriteDraw(ctx, h.runID, int64(index+1), er.Draw, lp); err != nil {
			return fmt.Errorf("evaluations[%d]: write draw: %w", index, err)
		}
	}

	checkExpect(index, ev.Expect, er, result)
	return nil
}

func checkExpect(index int, exp *Expect, er EvaluationResult, result *Result) {
	if exp == nil {
		return
	}
	prefix := fmt.Sprintf("evaluations[%d]", index)

	if exp.Error != "" {
		if er.Error != exp.Error {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %q", prefix, exp.Error, er.Error))
		}
		return
	}
	if er.Error != "" {
		result.AddError(fmt.Sprintf("%s: unexpected error %s", prefix, er.Error))
		return
	}

	tol := exp.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}

	if exp.LogDensity != nil && !within(*exp.LogDensity, er.LogDensity, tol) {
		result.AddError(fmt.Sprintf("%s: log_density: expected %v, got %v", prefix, *exp.LogDensity, er.LogDensity))
	}
	if exp.Gradient != nil {
		if msg := compareSlice(prefix+": gradient", exp.Gradient, er.Gradient, tol); msg != "" {
			result.AddError(msg)
		}
	}
	if exp.Finite && !allFinite(append([]float64{er.LogDensity}, er.Gradient...)) {
		result.AddError(fmt.Sprintf("%s: expected finite log density and gradient, got %v %v", prefix, er.LogDensity, er.Gradient))
	}

	names := make([]string, 0, len(exp.Draw))
	for name := range exp.Draw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		got, ok := er.Draw.Lookup(name)
		if !ok {
			result.AddError(fmt.Sprintf("%s: draw: missing %s", prefix, name))
			continue
		}
		if !within(exp.Draw[name], got, tol) {
			result.AddError(fmt.Sprintf("%s: draw: %s expected %v, got %v", prefix, name, exp.Draw[name], got))
		}
	}
}

func compareSlice(label string, want, got []float64, tol float64) string {
	if len(want) != len(got) {
		return fmt.Sprintf("%s: expected length %d, got %d", label, len(want), len(got))
	}
	for i := range want {
		if !within(want[i], got[i], tol) {
			return fmt.Sprintf("%s[%d]: expected %v, got %v", label, i, want[i], got[i])
		}
	}
	return ""
}

func within(want, got, tol float64) bool {
	return math.Abs(want-got) <= tol
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// codeOf returns the kernel error code of err, or "ERROR" for others.
func codeOf(err error) ir.ErrorCode {
	if code := ir.CodeOf(err); code != "" {
		return code
	}
	return "ERROR"
}
