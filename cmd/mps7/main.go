// Command mps7 decodes MPS7 transaction logs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mps7/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
