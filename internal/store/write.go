package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/ledger"
)

// WriteLoad persists a decoded load and all of its records under id.
//
// The load row and its records are written in a single transaction; a
// failure leaves no partial load behind. Writing an id that already exists
// fails with a constraint error.
func (s *Store) WriteLoad(ctx context.Context, id, source string, load *ledger.Load) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write load: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM loads`).Scan(&seq); err != nil {
		return fmt.Errorf("write load: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loads
		(id, seq, source, version, declared_count, decoded_count, skipped_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		seq,
		source,
		load.Header.Version,
		load.Header.RecordCount,
		load.Store.Len(),
		len(load.Skipped),
	)
	if err != nil {
		return fmt.Errorf("write load: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records
		(load_id, seq, type, timestamp, user_id, amount_bits, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write load: prepare records: %w", err)
	}
	defer stmt.Close()

	for i, rec := range load.Store.All() {
		if err := writeRecord(ctx, stmt, id, i, rec); err != nil {
			return fmt.Errorf("write load: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write load: commit: %w", err)
	}
	return nil
}

func writeRecord(ctx context.Context, stmt *sql.Stmt, loadID string, seq int, rec ir.Record) error {
	var (
		bits   sql.NullInt64
		amount sql.NullFloat64
	)
	if v, ok := rec.Amount(); ok {
		bits = sql.NullInt64{Int64: int64(math.Float64bits(v)), Valid: true}
		// NaN cannot be bound as REAL; amount_bits remains authoritative.
		amount = sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
	}
	_, err := stmt.ExecContext(ctx,
		loadID,
		seq,
		uint8(rec.Type),
		rec.Timestamp,
		int64(rec.UserID),
		bits,
		amount,
	)
	return err
}
