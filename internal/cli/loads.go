package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mps7/internal/store"
)

// LoadsOptions holds flags for the loads command.
type LoadsOptions struct {
	*RootOptions
	Database string
}

// NewLoadsCommand creates the loads command.
func NewLoadsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "loads",
		Short: "List loads exported to a database",
		Long: `List the loads stored in a SQLite database, oldest first.

Examples:
  mps7 loads --db ./mps7.db
  mps7 loads --db ./mps7.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoads(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLoads(opts *LoadsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening creates the file, so an absent database is reported instead.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return reportError(formatter, ErrCodeDatabase,
			NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database)))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase,
			WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	loads, err := st.ListLoads(cmd.Context())
	if err != nil {
		return reportError(formatter, ErrCodeDatabase,
			WrapExitError(ExitCommandError, "failed to list loads", err))
	}

	if opts.Format == "json" {
		return formatter.Success(loads)
	}

	w := cmd.OutOrStdout()
	if len(loads) == 0 {
		fmt.Fprintln(w, "No loads found.")
		return nil
	}
	for _, l := range loads {
		fmt.Fprintf(w, "%3d  %s  v%d  %d/%d records", l.Seq, l.ID, l.Header.Version, l.DecodedCount, l.Header.RecordCount)
		if l.SkippedCount > 0 {
			fmt.Fprintf(w, "  (%d skipped)", l.SkippedCount)
		}
		fmt.Fprintf(w, "  %s\n", l.Source)
	}
	return nil
}
