package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dichuniv/internal/catalog"
	"github.com/roach88/dichuniv/internal/model"
)

// NamesOptions holds flags for the names command.
type NamesOptions struct {
	*RootOptions
	IncludeTparams bool
	IncludeGQs     bool
}

// NamesResult holds the parameter names of the model.
type NamesResult struct {
	Constrained   []string `json:"constrained"`
	Unconstrained []string `json:"unconstrained"`
	Dims          [][]int  `json:"dims"`
}

// NewNamesCommand creates the names command.
func NewNamesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NamesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List parameter names",
		Long: `List the constrained and unconstrained parameter names.

Names are flattened in row-major order, e.g. theta.1.2. Parameter names
do not depend on data.

Examples:
  dichuniv names
  dichuniv names --include-gqs --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNames(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.IncludeTparams, "include-tparams", false, "include transformed parameters")
	cmd.Flags().BoolVar(&opts.IncludeGQs, "include-gqs", false, "include generated quantities")

	return cmd
}

func runNames(opts *NamesOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cat := catalog.Default().WithGenerated(model.MeanSuccessProbabilityName)

	result := NamesResult{
		Constrained:   cat.ConstrainedParamNames(opts.IncludeTparams, opts.IncludeGQs),
		Unconstrained: cat.UnconstrainedParamNames(opts.IncludeTparams, opts.IncludeGQs),
		Dims:          cat.Dims(),
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "constrained:   %s\n", strings.Join(result.Constrained, ", "))
	fmt.Fprintf(formatter.Writer, "unconstrained: %s\n", strings.Join(result.Unconstrained, ", "))
	return nil
}
