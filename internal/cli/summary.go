package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mps7/internal/ledger"
	"github.com/roach88/mps7/internal/report"
	"github.com/roach88/mps7/internal/store"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	DecodeFlags
	UserID   uint64
	Database string
	LoadID   string
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary [log]",
		Short: "Print totals, autopay counts and a user balance",
		Long: `Decode an MPS7 log and print the standard summary:
total debits, total credits, autopays started, autopays ended and the
balance of one user.

Autopay figures count distinct users, not records.

The log can come from a file or from a load previously exported to SQLite.

Exit codes:
  0 - Summary printed
  1 - Log is malformed
  2 - Command error (unreadable file, database error, etc.)

Examples:
  mps7 summary txnlog.dat
  mps7 summary txnlog.dat --user 2456938384156277127
  mps7 summary txnlog.dat --lenient --format json
  mps7 summary --db ./mps7.db --load 0192b3c4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, args, cmd)
		},
	}

	addDecodeFlags(cmd, &opts.DecodeFlags)
	cmd.Flags().Uint64Var(&opts.UserID, "user", report.DefaultUserID, "user id whose balance is reported")
	cmd.Flags().StringVar(&opts.Database, "db", "", "read the load from this SQLite database instead of a file")
	cmd.Flags().StringVar(&opts.LoadID, "load", "", "load id to read from --db")

	return cmd
}

func runSummary(opts *SummaryOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	load, err := summarySource(opts, args, cmd, logger)
	if err != nil {
		return reportError(formatter, errorCode(err), err)
	}

	summary, err := report.Build(load, opts.UserID)
	if err != nil {
		return reportError(formatter, ErrCodeGeneric, WrapExitError(ExitFailure, "failed to build summary", err))
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	return report.WriteText(cmd.OutOrStdout(), summary)
}

// summarySource resolves the load from either a log path or --db/--load.
func summarySource(opts *SummaryOptions, args []string, cmd *cobra.Command, logger *slog.Logger) (*ledger.Load, error) {
	fromDB := opts.Database != "" || opts.LoadID != ""
	switch {
	case fromDB && len(args) > 0:
		return nil, NewExitError(ExitCommandError, "give either a log file or --db/--load, not both")
	case fromDB && (opts.Database == "" || opts.LoadID == ""):
		return nil, NewExitError(ExitCommandError, "--db and --load must be used together")
	case !fromDB && len(args) == 0:
		return nil, NewExitError(ExitCommandError, "a log file is required")
	case !fromDB:
		return decodeLog(args[0], opts.DecodeFlags, logger)
	}

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	load, err := st.ReadLoad(cmd.Context(), opts.LoadID)
	if errors.Is(err, store.ErrLoadNotFound) {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("load %s not found", opts.LoadID), err)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read load", err)
	}
	logger.Info("load read", "id", opts.LoadID, "records", load.Store.Len())
	return load, nil
}
