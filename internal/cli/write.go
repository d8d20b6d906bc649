package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dichuniv/internal/store"
)

// WriteOptions holds flags for the write command.
type WriteOptions struct {
	*RootOptions
	Data     string
	Database string
	Draws    string
	Theta    []string
	RunID    string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// WriteResult summarizes the draws written.
type WriteResult struct {
	RunID    string   `json:"run_id"`
	FirstSeq int64    `json:"first_seq"`
	Written  int      `json:"written"`
	DrawIDs  []string `json:"draw_ids"`
	Names    []string `json:"names"`
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Constrain draws and append them to a run",
		Long: `Map unconstrained draws to named constrained values, including
generated quantities, and append them to a run in a SQLite database.

Without --run a new run is created for the data file. With --run the
draws are appended after the run's last draw; the run's data
fingerprint must match the data file. Every draw is evaluated before
anything is stored, and the run and its draws are written in one
transaction.

Examples:
  dichuniv write --data ./data.json --db ./draws.db --draws ./draws.json
  dichuniv write --data ./data.json --db ./draws.db --run <id> --theta 0.1,-0.3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "path to data file (required)")
	_ = cmd.MarkFlagRequired("data")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Draws, "draws", "", "JSON or YAML file with a list of unconstrained vectors")
	cmd.Flags().StringArrayVar(&opts.Theta, "theta", nil, "unconstrained vector, comma-separated (repeatable)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "append to an existing run")

	return cmd
}

func runWrite(opts *WriteOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx, span := startCommandSpan(context.Background(), "write")
	defer span.End()

	if err := requireFile(formatter, "data", opts.Data); err != nil {
		return err
	}
	if opts.Draws != "" {
		if err := requireFile(formatter, "draws", opts.Draws); err != nil {
			return err
		}
	}

	thetas, err := collectThetas(opts.Theta, opts.Draws)
	if err != nil {
		return failInput(formatter, err.Error())
	}

	m, err := loadModel(ctx, opts.RootOptions, opts.Data, cmd)
	if err != nil {
		recordCommand(ctx, "write", false)
		return fail(formatter, "failed to build model", err)
	}
	fingerprint, err := m.Observed().Fingerprint()
	if err != nil {
		return fail(formatter, "failed to fingerprint data", err)
	}

	names := m.ConstrainedParamNames(true, true)
	records := make([]store.DrawRecord, len(thetas))
	for i, theta := range thetas {
		draw, err := m.WriteArray(theta, true, true)
		if err != nil {
			recordCommand(ctx, "write", false)
			return fail(formatter, fmt.Sprintf("failed to constrain draw %d", i+1), err)
		}
		lp, err := m.LogProb(theta, false, true)
		if err != nil {
			recordCommand(ctx, "write", false)
			return fail(formatter, fmt.Sprintf("failed to evaluate draw %d", i+1), err)
		}
		records[i] = store.DrawRecord{Values: draw, LogDensity: lp}
	}

	var storeOpts []store.Option
	if opts.RunIDs != nil {
		storeOpts = append(storeOpts, store.WithRunIDGenerator(opts.RunIDs))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return failStore(formatter, ErrCodeWriteFailed, "failed to open database", err)
	}
	defer st.Close()

	formatter.VerboseLog("Writing %d draw(s)", len(records))
	appended, err := st.Append(ctx, opts.RunID, fingerprint, names, records)
	if err != nil {
		recordCommand(ctx, "write", false)
		return failStore(formatter, ErrCodeWriteFailed, "failed to write draws", err)
	}
	recordCommand(ctx, "write", true)

	result := WriteResult{
		RunID:    appended.Run.ID,
		FirstSeq: appended.FirstSeq,
		Written:  len(appended.DrawIDs),
		DrawIDs:  appended.DrawIDs,
		Names:    names,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Wrote %d draw(s) to run %s (seq %d-%d)\n",
		result.Written, result.RunID, result.FirstSeq, result.FirstSeq+int64(result.Written)-1)
	return nil
}
