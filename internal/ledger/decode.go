package ledger

import (
	"errors"
	"io"
	"log/slog"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/wire"
)

// Options controls how Decode treats malformed input.
type Options struct {
	// Lenient skips malformed records instead of aborting. An unknown type
	// byte is skipped one byte at a time; a truncated record ends the scan.
	Lenient bool

	// EnforceDeclaredCount fails the decode when the header record count
	// differs from the number of records decoded.
	EnforceDeclaredCount bool

	// Logger receives a Warn entry per skipped record. Defaults to slog.Default().
	Logger *slog.Logger
}

// Load is the result of a successful Decode.
type Load struct {
	Header ir.Header
	Store  *Store

	// Skipped lists the records dropped in lenient mode, in file order.
	Skipped []*wire.DecodeError
}

// Decode turns a complete MPS7 buffer into a header and a populated Store.
//
// Decode is atomic in strict mode: on error it returns nil and nothing
// decoded so far is exposed. Bad magic is fatal in every mode.
func Decode(buf []byte, opts Options) (*Load, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dec, err := wire.NewDecoder(buf)
	if err != nil {
		return nil, err
	}

	load := &Load{Header: dec.Header(), Store: NewStore()}
	for {
		rec, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var de *wire.DecodeError
			if !opts.Lenient || !errors.As(err, &de) {
				return nil, err
			}
			load.Skipped = append(load.Skipped, de)
			logger.Warn("skipping malformed record",
				"offset", de.Offset,
				"code", string(de.Code),
				"error", de.Message,
			)
			if de.Code == wire.ErrCodeTruncated {
				break
			}
			dec.Skip(1)
			continue
		}
		load.Store.insert(rec)
	}

	if opts.EnforceDeclaredCount && int64(load.Header.RecordCount) != int64(load.Store.Len()) {
		return nil, wire.NewDeclaredCountMismatchError(len(buf), load.Header.RecordCount, load.Store.Len())
	}

	return load, nil
}
