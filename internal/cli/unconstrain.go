package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dichuniv/internal/datasource"
	"github.com/roach88/dichuniv/internal/ir"
)

// UnconstrainOptions holds flags for the unconstrain command.
type UnconstrainOptions struct {
	*RootOptions
	Data string
	Init string
}

// UnconstrainResult holds an unconstrained init vector.
type UnconstrainResult struct {
	Names []string  `json:"names"`
	Theta []ir.Real `json:"theta"`
}

// NewUnconstrainCommand creates the unconstrain command.
func NewUnconstrainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UnconstrainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "unconstrain",
		Short: "Map initial values to the unconstrained space",
		Long: `Read constrained initial values for every parameter and print the
unconstrained vector a sampler starts from.

Examples:
  dichuniv unconstrain --data ./data.json --init ./inits.json
  dichuniv unconstrain --data ./data.yaml --init ./inits.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnconstrain(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "path to data file (required)")
	_ = cmd.MarkFlagRequired("data")
	cmd.Flags().StringVar(&opts.Init, "init", "", "path to initial values file (required)")
	_ = cmd.MarkFlagRequired("init")

	return cmd
}

func runUnconstrain(opts *UnconstrainOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx, span := startCommandSpan(context.Background(), "unconstrain")
	defer span.End()

	if err := requireFile(formatter, "data", opts.Data); err != nil {
		return err
	}
	if err := requireFile(formatter, "init", opts.Init); err != nil {
		return err
	}

	m, err := loadModel(ctx, opts.RootOptions, opts.Data, cmd)
	if err != nil {
		recordCommand(ctx, "unconstrain", false)
		return fail(formatter, "failed to build model", err)
	}

	inits, err := datasource.Load(opts.Init)
	if err != nil {
		recordCommand(ctx, "unconstrain", false)
		return fail(formatter, "failed to load inits", err)
	}

	theta, err := m.TransformInits(inits)
	if err != nil {
		recordCommand(ctx, "unconstrain", false)
		return fail(formatter, "failed to transform inits", err)
	}
	recordCommand(ctx, "unconstrain", true)

	result := UnconstrainResult{
		Names: m.UnconstrainedParamNames(false, false),
		Theta: ir.Reals(theta),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	for i, name := range result.Names {
		fmt.Fprintf(formatter.Writer, "%s = %s\n", name, result.Theta[i])
	}
	return nil
}
