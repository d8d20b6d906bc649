package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dichuniv/internal/ir"
)

// Scenario defines a conformance test scenario: one dataset and a list of
// evaluations against it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Data is the inline dataset (Z, N, Y, X).
	// Exactly one of Data and DataFile must be set.
	Data map[string]any `yaml:"data,omitempty"`

	// DataFile is a path to a .json, .yaml or .cue data file, relative to
	// the scenario file.
	DataFile string `yaml:"data_file,omitempty"`

	// ExpectError is the error code model construction must fail with.
	// When set, Evaluations and Inits must be empty.
	ExpectError ir.ErrorCode `yaml:"expect_error,omitempty"`

	// Inits are constrained initial values to unconstrain, with the
	// expected result.
	Inits *InitsStep `yaml:"inits,omitempty"`

	// Evaluations are log density evaluations in order.
	Evaluations []Evaluation `yaml:"evaluations,omitempty"`
}

// InitsStep unconstrains named values.
type InitsStep struct {
	Values map[string]any `yaml:"values"`

	// Theta is the expected unconstrained vector.
	Theta []float64 `yaml:"theta,omitempty"`

	// Error is the expected error code.
	Error ir.ErrorCode `yaml:"error,omitempty"`
}

// Evaluation evaluates the log density at one unconstrained point.
type Evaluation struct {
	Theta    []float64 `yaml:"theta"`
	Propto   bool      `yaml:"propto"`
	Jacobian bool      `yaml:"jacobian"`

	// Expect is optional; without it the evaluation only feeds the golden
	// snapshot.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of an evaluation.
type Expect struct {
	// LogDensity is the expected value, compared within Tolerance.
	LogDensity *float64 `yaml:"log_density,omitempty"`

	// Gradient is the expected gradient, compared within Tolerance.
	Gradient []float64 `yaml:"gradient,omitempty"`

	// Tolerance is the absolute tolerance. Default: DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Finite requires a finite log density and gradient.
	Finite bool `yaml:"finite,omitempty"`

	// Draw is the expected constrained output, compared within Tolerance.
	Draw map[string]float64 `yaml:"draw,omitempty"`

	// Error is the expected error code.
	Error ir.ErrorCode `yaml:"error,omitempty"`
}

// DefaultTolerance is used when an Expect omits Tolerance.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// DataFile is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.DataFile != "" && !filepath.IsAbs(scenario.DataFile) {
		scenario.DataFile = filepath.Join(filepath.Dir(path), scenario.DataFile)
	}
	if scenario.DataFile != "" {
		if _, err := os.Stat(scenario.DataFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: data file not found: %s", scenario.DataFile)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Data == nil) == (s.DataFile == "") {
		return fmt.Errorf("exactly one of data and data_file is required")
	}

	if s.ExpectError != "" {
		if len(s.Evaluations) > 0 || s.Inits != nil {
			return fmt.Errorf("expect_error excludes evaluations and inits")
		}
		return nil
	}

	if len(s.Evaluations) == 0 && s.Inits == nil {
		return fmt.Errorf("evaluations or inits is required")
	}

	if s.Inits != nil {
		if s.Inits.Values == nil {
			return fmt.Errorf("inits: values is required (use empty map if none)")
		}
		if (s.Inits.Theta == nil) == (s.Inits.Error == "") {
			return fmt.Errorf("inits: exactly one of theta and error is required")
		}
	}

	for i, ev := range s.Evaluations {
		if ev.Theta == nil {
			return fmt.Errorf("evaluations[%d]: theta is required", i)
		}
		if ev.Expect == nil {
			continue
		}
		if ev.Expect.Tolerance < 0 {
			return fmt.Errorf("evaluations[%d].expect: tolerance must be non-negative", i)
		}
		if ev.Expect.Error != "" && (ev.Expect.LogDensity != nil || ev.Expect.Gradient != nil || ev.Expect.Draw != nil || ev.Expect.Finite) {
			return fmt.Errorf("evaluations[%d].expect: error excludes value expectations", i)
		}
	}

	return nil
}
