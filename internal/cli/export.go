package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mps7/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	DecodeFlags
	Database string

	// IDGenerator allows overriding the load id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.LoadIDGenerator
}

// ExportResult is the output of a successful export.
type ExportResult struct {
	LoadID   string `json:"load_id"`
	Database string `json:"database"`
	Records  int    `json:"records"`
	Skipped  int    `json:"skipped"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return newExportCommand(&ExportOptions{RootOptions: rootOpts})
}

func newExportCommand(opts *ExportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <log>",
		Short: "Decode a log and store it in SQLite",
		Long: `Decode an MPS7 log and write it to a SQLite database as a new load.

The database is created if it doesn't exist. Each export gets a fresh
load id; exporting the same file twice stores two loads. Amounts are kept
bit-exact so a stored load summarizes exactly like the original file.

Examples:
  mps7 export txnlog.dat --db ./mps7.db
  mps7 export txnlog.dat --db ./mps7.db --lenient --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	addDecodeFlags(cmd, &opts.DecodeFlags)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	load, err := decodeLog(path, opts.DecodeFlags, logger)
	if err != nil {
		return reportError(formatter, errorCode(err), err)
	}

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return reportError(formatter, ErrCodeDatabase,
			WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	id := gen.Generate()

	if err := st.WriteLoad(cmd.Context(), id, path, load); err != nil {
		return reportError(formatter, ErrCodeDatabase,
			WrapExitError(ExitCommandError, "failed to write load", err))
	}
	logger.Info("load exported", "id", id, "records", load.Store.Len())

	result := ExportResult{
		LoadID:   id,
		Database: opts.Database,
		Records:  load.Store.Len(),
		Skipped:  len(load.Skipped),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d records to %s\n", result.Records, result.Database)
	fmt.Fprintf(cmd.OutOrStdout(), "  Load: %s\n", result.LoadID)
	if result.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Skipped malformed records: %d\n", result.Skipped)
	}
	return nil
}
