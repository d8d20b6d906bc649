package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/store"
)

// StoreOptions holds flags for commands that read a database.
type StoreOptions struct {
	*RootOptions
	Database string
}

// DrawRow is one stored draw as printed by the draws command.
type DrawRow struct {
	Seq        int64    `json:"seq"`
	ID         string   `json:"id"`
	Values     ir.Draw  `json:"values"`
	LogDensity *float64 `json:"log_density,omitempty"` // nil when not recorded
}

// DrawsResult holds the draws of one run.
type DrawsResult struct {
	Run   store.Run `json:"run"`
	Draws []DrawRow `json:"draws"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Long: `List every run in a draws database, oldest first.

Example:
  dichuniv runs --db ./draws.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *StoreOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := context.Background()

	if err := requireFile(formatter, "database", opts.Database); err != nil {
		return err
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return failStore(formatter, ErrCodeGeneric, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return failStore(formatter, ErrCodeGeneric, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs found.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%d  %s  %s %s  %s\n",
			run.Seq, run.ID, run.ModelName, run.KernelVersion, strings.Join(run.ParamNames, ","))
	}
	return nil
}

// NewDrawsCommand creates the draws command.
func NewDrawsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "draws <run-id>",
		Short: "Show the draws of a run",
		Long: `Show the constrained draws of a run in seq order.

Examples:
  dichuniv draws --db ./draws.db <run-id>
  dichuniv draws --db ./draws.db <run-id> --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraws(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDraws(opts *StoreOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := context.Background()

	if err := requireFile(formatter, "database", opts.Database); err != nil {
		return err
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return failStore(formatter, ErrCodeGeneric, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return failStore(formatter, ErrCodeGeneric, "failed to get run", err)
	}
	stored, err := st.ReadDraws(ctx, runID)
	if err != nil {
		return failStore(formatter, ErrCodeGeneric, "failed to read draws", err)
	}

	result := DrawsResult{Run: run, Draws: make([]DrawRow, len(stored))}
	for i, d := range stored {
		row := DrawRow{Seq: d.Seq, ID: d.ID, Values: d.Values}
		if !math.IsNaN(d.LogDensity) {
			lp := d.LogDensity
			row.LogDensity = &lp
		}
		result.Draws[i] = row
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%d draw(s))\n", run.ID, len(result.Draws))
	for _, row := range result.Draws {
		parts := make([]string, len(row.Values))
		for j, nv := range row.Values {
			parts[j] = nv.Name + "=" + formatFloat(nv.Value)
		}
		fmt.Fprintf(formatter.Writer, "%d: %s", row.Seq, strings.Join(parts, " "))
		if row.LogDensity != nil {
			fmt.Fprintf(formatter.Writer, " log_density=%s", formatFloat(*row.LogDensity))
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}
