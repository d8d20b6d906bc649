package cli

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/dichuniv/internal/data"
	"github.com/roach88/dichuniv/internal/datasource"
	"github.com/roach88/dichuniv/internal/ir"
)

// ValidationError is one data validation failure.
type ValidationError struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Groups      int               `json:"groups,omitempty"`
	Trials      int               `json:"trials,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Errors      []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <data-file>",
		Short: "Validate a data file against the model",
		Long: `Validate a data file against the model's data declarations.

Checks that Z, N, Y and X are present with the declared shapes, that
counts are non-negative and that no group has more successes than
trials. Reports the data fingerprint on success.

Exit codes:
  0 - Data valid
  1 - Data decoded but failed validation
  2 - Command error (file not found, parse error, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dataPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx, span := startCommandSpan(context.Background(), "validate")
	defer span.End()

	if err := requireFile(formatter, "data", dataPath); err != nil {
		return err
	}

	src, err := datasource.Load(dataPath)
	if err != nil {
		recordCommand(ctx, "validate", false)
		return fail(formatter, "failed to load data", err)
	}
	formatter.VerboseLog("Loaded %d variable(s) from %s", len(src.Names()), dataPath)

	obs, err := data.New(src)
	if err != nil {
		recordCommand(ctx, "validate", false)
		return outputValidationErrors(formatter, []ValidationError{{
			Code:    errorCode(err),
			Kind:    string(ir.CodeOf(err)),
			Message: err.Error(),
		}})
	}

	fingerprint, err := obs.Fingerprint()
	if err != nil {
		recordCommand(ctx, "validate", false)
		return fail(formatter, "failed to fingerprint data", err)
	}

	trials := 0
	for _, n := range obs.Trials() {
		trials += n
	}
	recordCommand(ctx, "validate", true)

	result := ValidationResult{
		Valid:       true,
		Groups:      obs.Z(),
		Trials:      trials,
		Fingerprint: fingerprint,
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Data valid (%d group(s), %d trial(s))\n", result.Groups, result.Trials)
	fmt.Fprintf(formatter.Writer, "  fingerprint: %s\n", result.Fingerprint)
	return nil
}

// outputValidationErrors outputs data validation failures.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
