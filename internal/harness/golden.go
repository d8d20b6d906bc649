package harness

import (
	"math"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/dichuniv/internal/ir"
)

// snapshotDecimals is the fixed precision of numbers in golden files.
// Values are rounded so the last-ulp differences between platforms'
// math libraries never reach a snapshot.
const snapshotDecimals = 9

// Snapshot returns the canonical JSON form of a result used for golden
// comparison. Numbers are rendered as fixed-precision strings.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return ir.MarshalCanonical(snapshotMap(scenarioName, result))
}

func snapshotMap(scenarioName string, r *Result) map[string]any {
	out := map[string]any{
		"scenario": scenarioName,
		"model":    ir.ModelName,
		"pass":     r.Pass,
	}
	if r.BuildError != "" {
		out["build_error"] = string(r.BuildError)
		return out
	}

	out["groups"] = r.Groups
	out["run_id"] = r.RunID
	out["stored_draws"] = r.StoredDraws

	if r.InitsTheta != nil {
		out["inits_theta"] = formatSlice(r.InitsTheta)
	}
	if r.InitsError != "" {
		out["inits_error"] = string(r.InitsError)
	}

	evals := make([]any, len(r.Evaluations))
	for i, er := range r.Evaluations {
		ev := map[string]any{
			"theta":    formatSlice(er.Theta),
			"propto":   er.Propto,
			"jacobian": er.Jacobian,
		}
		if er.Error != "" {
			ev["error"] = string(er.Error)
		} else {
			ev["log_density"] = formatNumber(er.LogDensity)
			ev["gradient"] = formatSlice(er.Gradient)
			draw := make(map[string]any, len(er.Draw))
			for _, nv := range er.Draw {
				draw[nv.Name] = formatNumber(nv.Value)
			}
			ev["draw"] = draw
		}
		evals[i] = ev
	}
	out["evaluations"] = evals
	return out
}

// formatNumber renders v with snapshotDecimals decimals. Values that round
// to zero render as "0.000000000" regardless of sign.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	if math.Abs(v) < 0.5*math.Pow10(-snapshotDecimals) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', snapshotDecimals, 64)
}

func formatSlice(vs []float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = formatNumber(v)
	}
	return out
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)

	return nil
}
