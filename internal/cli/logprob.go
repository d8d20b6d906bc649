package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/model"
)

// LogProbOptions holds flags for the logprob command.
type LogProbOptions struct {
	*RootOptions
	Data     string
	Theta    []string
	Draws    string
	Propto   bool
	Jacobian bool
	Gradient bool
	Workers  int
}

// PointEvaluation is the log density at one unconstrained vector. A
// non-finite density is a result, not an error; in JSON it is spelled
// "NaN", "+Inf" or "-Inf".
type PointEvaluation struct {
	Index      int
	Theta      []float64
	LogDensity float64
	Gradient   []float64
}

type pointEvaluationJSON struct {
	Index      int       `json:"index"`
	Theta      []ir.Real `json:"theta"`
	LogDensity ir.Real   `json:"log_density"`
	Gradient   []ir.Real `json:"gradient,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p PointEvaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointEvaluationJSON{
		Index:      p.Index,
		Theta:      ir.Reals(p.Theta),
		LogDensity: ir.Real(p.LogDensity),
		Gradient:   ir.Reals(p.Gradient),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PointEvaluation) UnmarshalJSON(b []byte) error {
	var raw pointEvaluationJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = PointEvaluation{
		Index:      raw.Index,
		Theta:      ir.Floats(raw.Theta),
		LogDensity: float64(raw.LogDensity),
		Gradient:   ir.Floats(raw.Gradient),
	}
	return nil
}

// LogProbResult holds every evaluation, in input order.
type LogProbResult struct {
	Propto      bool              `json:"propto"`
	Jacobian    bool              `json:"jacobian"`
	Evaluations []PointEvaluation `json:"evaluations"`
}

// NewLogProbCommand creates the logprob command.
func NewLogProbCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogProbOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "logprob",
		Short: "Evaluate the log density and its gradient",
		Long: `Evaluate the log density at one or more unconstrained parameter
vectors.

Vectors come from repeated --theta flags (comma-separated) and from a
JSON or YAML draws file holding a list of vectors. Points are evaluated
concurrently; results are printed in input order.

Examples:
  dichuniv logprob --data ./data.json --theta 0,0
  dichuniv logprob --data ./data.json --theta 0,0 --theta 0.5,-1 --propto
  dichuniv logprob --data ./data.json --draws ./draws.json --workers 8 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogProb(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "path to data file (required)")
	_ = cmd.MarkFlagRequired("data")
	cmd.Flags().StringArrayVar(&opts.Theta, "theta", nil, "unconstrained vector, comma-separated (repeatable)")
	cmd.Flags().StringVar(&opts.Draws, "draws", "", "JSON or YAML file with a list of unconstrained vectors")
	cmd.Flags().BoolVar(&opts.Propto, "propto", false, "drop constant terms")
	cmd.Flags().BoolVar(&opts.Jacobian, "jacobian", true, "include the change-of-variables adjustment")
	cmd.Flags().BoolVar(&opts.Gradient, "gradient", true, "also compute the gradient")
	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.GOMAXPROCS(0), "maximum concurrent evaluations")

	return cmd
}

func runLogProb(opts *LogProbOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx, span := startCommandSpan(context.Background(), "logprob")
	defer span.End()

	if err := requireFile(formatter, "data", opts.Data); err != nil {
		return err
	}
	if opts.Draws != "" {
		if err := requireFile(formatter, "draws", opts.Draws); err != nil {
			return err
		}
	}
	if opts.Workers < 1 {
		return failInput(formatter, fmt.Sprintf("--workers must be at least 1, got %d", opts.Workers))
	}

	thetas, err := collectThetas(opts.Theta, opts.Draws)
	if err != nil {
		return failInput(formatter, err.Error())
	}

	m, err := loadModel(ctx, opts.RootOptions, opts.Data, cmd)
	if err != nil {
		recordCommand(ctx, "logprob", false)
		return fail(formatter, "failed to build model", err)
	}
	formatter.VerboseLog("Evaluating %d point(s) with %d worker(s)", len(thetas), opts.Workers)

	start := time.Now()
	evals, err := evaluatePoints(ctx, m, thetas, opts)
	recordEvalMetrics(ctx, time.Since(start), len(thetas), err == nil)
	if err != nil {
		recordCommand(ctx, "logprob", false)
		return fail(formatter, "evaluation failed", err)
	}
	recordCommand(ctx, "logprob", true)

	result := LogProbResult{
		Propto:      opts.Propto,
		Jacobian:    opts.Jacobian,
		Evaluations: evals,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	for _, ev := range result.Evaluations {
		fmt.Fprintf(formatter.Writer, "%d: log_density=%s", ev.Index, formatFloat(ev.LogDensity))
		if ev.Gradient != nil {
			fmt.Fprintf(formatter.Writer, " gradient=[%s]", formatFloats(ev.Gradient))
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

// evaluatePoints evaluates every theta with at most opts.Workers
// concurrent evaluations. The first error cancels the remaining points.
func evaluatePoints(ctx context.Context, m *model.Model, thetas [][]float64, opts *LogProbOptions) ([]PointEvaluation, error) {
	evals := make([]PointEvaluation, len(thetas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, theta := range thetas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev := PointEvaluation{Index: i + 1, Theta: theta}
			var err error
			if opts.Gradient {
				ev.LogDensity, ev.Gradient, err = m.LogProbGrad(theta, opts.Propto, opts.Jacobian)
			} else {
				ev.LogDensity, err = m.LogProb(theta, opts.Propto, opts.Jacobian)
			}
			if err != nil {
				return fmt.Errorf("theta %d: %w", i+1, err)
			}
			evals[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return evals, nil
}
