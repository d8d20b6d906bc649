package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dichuniv/internal/datasource"
	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/model"
	"github.com/roach88/dichuniv/internal/store"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric             = "E001" // Generic/unknown error
	ErrCodeLoadFailed          = "E002" // Data or init file could not be decoded
	ErrCodeMissingVariable     = "E003" // Variable absent from a source
	ErrCodeDimensionMismatch   = "E004" // Declared and found shapes disagree
	ErrCodeNotFound            = "E005" // Path or run not found
	ErrCodeConstraintViolation = "E006" // Value outside its domain
	ErrCodeWriteFailed         = "E007" // Store write error
	ErrCodeTypeMismatch        = "E008" // Int variable given real values
	ErrCodeInvalidInput        = "E009" // Malformed --theta or draws file
	ErrCodeConflict            = "E010" // Different values under an existing draw
)

// errorCode maps an error to its CLI error code.
func errorCode(err error) string {
	switch ir.CodeOf(err) {
	case ir.ErrCodeMissingVariable:
		return ErrCodeMissingVariable
	case ir.ErrCodeDimensionMismatch:
		return ErrCodeDimensionMismatch
	case ir.ErrCodeConstraintViolation:
		return ErrCodeConstraintViolation
	case ir.ErrCodeTypeMismatch:
		return ErrCodeTypeMismatch
	}

	var srcErr *datasource.SourceError
	if errors.As(err, &srcErr) {
		return ErrCodeLoadFailed
	}
	if store.IsConflict(err) {
		return ErrCodeConflict
	}
	if errors.Is(err, store.ErrRunNotFound) {
		return ErrCodeNotFound
	}
	return ErrCodeGeneric
}

// exitCodeFor returns the exit code for a failed command. Data that
// decodes but fails model validation is a validation failure; everything
// else is a command error.
func exitCodeFor(err error) int {
	if ir.CodeOf(err) != "" {
		return ExitFailure
	}
	return ExitCommandError
}

// fail reports err through the formatter and returns the matching
// ExitError.
func fail(formatter *OutputFormatter, message string, err error) error {
	code := errorCode(err)
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exitCodeFor(err), fmt.Sprintf("%s: %s", code, message), err)
}

// failStore reports a database error. Conflicts and unknown runs keep
// their own codes; anything else is reported under code.
func failStore(formatter *OutputFormatter, code, message string, err error) error {
	if c := errorCode(err); c != ErrCodeGeneric {
		code = c
	}
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), err)
}

// failInput reports malformed command input.
func failInput(formatter *OutputFormatter, message string) error {
	_ = formatter.Error(ErrCodeInvalidInput, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeInvalidInput, message))
}

// requireFile reports a missing input path as a command error.
func requireFile(formatter *OutputFormatter, what, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		message := fmt.Sprintf("%s file not found: %s", what, path)
		_ = formatter.Error(ErrCodeNotFound, message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNotFound, message))
	}
	return nil
}

// loadModel decodes dataPath and builds the model, with the mean success
// probability registered as a generated quantity.
func loadModel(ctx context.Context, opts *RootOptions, dataPath string, cmd *cobra.Command) (*model.Model, error) {
	src, err := datasource.Load(dataPath)
	if err != nil {
		return nil, err
	}
	return model.New(ctx, src,
		model.WithLogger(opts.logger(cmd)),
		model.WithGeneratedQuantity(model.MeanSuccessProbabilityName, model.MeanSuccessProbability),
	)
}

// parseThetas parses --theta values. Each value is one comma-separated
// unconstrained vector.
func parseThetas(values []string) ([][]float64, error) {
	thetas := make([][]float64, 0, len(values))
	for i, v := range values {
		fields := strings.Split(v, ",")
		theta := make([]float64, 0, len(fields))
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("theta %d: invalid number %q", i+1, f)
			}
			theta = append(theta, x)
		}
		thetas = append(thetas, theta)
	}
	return thetas, nil
}

// loadDrawsFile reads a list of unconstrained vectors from a JSON or YAML
// file, e.g. [[0, 0], [0.5, -1]].
func loadDrawsFile(path string) ([][]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var draws [][]float64
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &draws)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &draws)
	default:
		return nil, fmt.Errorf("unsupported draws file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return draws, nil
}

// collectThetas merges --theta values and the draws file, flags first.
func collectThetas(thetaFlags []string, drawsPath string) ([][]float64, error) {
	thetas, err := parseThetas(thetaFlags)
	if err != nil {
		return nil, err
	}
	if drawsPath != "" {
		fromFile, err := loadDrawsFile(drawsPath)
		if err != nil {
			return nil, err
		}
		thetas = append(thetas, fromFile...)
	}
	if len(thetas) == 0 {
		return nil, errors.New("no parameter vectors given (use --theta or --draws)")
	}
	for i, theta := range thetas {
		for j, x := range theta {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("theta %d: element %d is not finite", i+1, j+1)
			}
		}
	}
	return thetas, nil
}
