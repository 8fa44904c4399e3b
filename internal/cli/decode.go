package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mps7/internal/ledger"
	"github.com/roach88/mps7/internal/store"
	"github.com/roach88/mps7/internal/wire"
)

// DecodeFlags holds the decode mode flags shared by commands that read a log.
type DecodeFlags struct {
	Lenient     bool // skip malformed records
	StrictCount bool // fail when the header record count is wrong
}

func addDecodeFlags(cmd *cobra.Command, flags *DecodeFlags) {
	cmd.Flags().BoolVar(&flags.Lenient, "lenient", false, "skip malformed records instead of failing")
	cmd.Flags().BoolVar(&flags.StrictCount, "strict-count", false, "fail if the header record count differs from the records decoded")
}

// decodeLog reads and decodes the log at path.
//
// An unreadable file is a command error (exit 2); a malformed log is a
// failure (exit 1).
func decodeLog(path string, flags DecodeFlags, logger *slog.Logger) (*ledger.Load, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read log %s", path), err)
	}
	logger.Debug("decoding log", "path", path, "bytes", len(buf), "lenient", flags.Lenient, "strict_count", flags.StrictCount)

	load, err := ledger.Decode(buf, ledger.Options{
		Lenient:              flags.Lenient,
		EnforceDeclaredCount: flags.StrictCount,
		Logger:               logger,
	})
	if err != nil {
		return nil, WrapExitError(ExitFailure, fmt.Sprintf("failed to decode log %s", path), err)
	}

	logger.Info("log decoded",
		"path", path,
		"version", load.Header.Version,
		"declared", load.Header.RecordCount,
		"decoded", load.Store.Len(),
		"skipped", len(load.Skipped),
	)
	return load, nil
}

// errorCode picks the JSON error code for a command error.
func errorCode(err error) string {
	var de *wire.DecodeError
	if errors.As(err, &de) {
		return ErrCodeDecodeFailed
	}
	if errors.Is(err, store.ErrLoadNotFound) {
		return ErrCodeNotFound
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
		return ErrCodeReadFailed
	}
	return ErrCodeGeneric
}

// reportError writes err through the formatter when JSON output is selected,
// so scripted callers always get an envelope. err is returned unchanged.
func reportError(f *OutputFormatter, code string, err error) error {
	if f.Format != "json" {
		return err
	}
	var details any
	var de *wire.DecodeError
	if errors.As(err, &de) {
		details = map[string]any{
			"kind":   string(de.Code),
			"offset": de.Offset,
		}
	}
	if encErr := f.Error(code, err.Error(), details); encErr != nil {
		return encErr
	}
	return err
}
