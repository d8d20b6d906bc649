// Command dichuniv evaluates the dich_univ logistic regression model.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dichuniv/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
