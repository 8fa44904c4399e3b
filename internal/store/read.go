package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/ledger"
)

// ErrLoadNotFound is returned when a load id is not in the store.
var ErrLoadNotFound = errors.New("store: load not found")

// LoadInfo describes an exported load.
type LoadInfo struct {
	ID           string    `json:"id"`
	Seq          int64     `json:"seq"`
	Source       string    `json:"source"`
	Header       ir.Header `json:"header"`
	DecodedCount int       `json:"decoded_count"`
	SkippedCount int       `json:"skipped_count"`
}

// RecordFilter narrows ReadRecords. Nil fields match everything.
type RecordFilter struct {
	Type   *ir.RecordType
	UserID *uint64
}

// ListLoads returns all exported loads ordered by export sequence.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListLoads(ctx context.Context) ([]LoadInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, source, version, declared_count, decoded_count, skipped_count
		FROM loads
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	defer rows.Close()

	loads := []LoadInfo{}
	for rows.Next() {
		info, err := scanLoadInfo(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loads: %w", err)
	}
	return loads, nil
}

// ReadLoadInfo returns the load row for id, or ErrLoadNotFound.
func (s *Store) ReadLoadInfo(ctx context.Context, id string) (LoadInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, source, version, declared_count, decoded_count, skipped_count
		FROM loads
		WHERE id = ?
	`, id)
	info, err := scanLoadInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return LoadInfo{}, fmt.Errorf("%w: %s", ErrLoadNotFound, id)
	}
	return info, err
}

// ReadRecords returns the records of a load in file order.
func (s *Store) ReadRecords(ctx context.Context, loadID string, filter RecordFilter) ([]ir.Record, error) {
	var (
		where = []string{"load_id = ?"}
		args  = []any{loadID}
	)
	if filter.Type != nil {
		where = append(where, "type = ?")
		args = append(args, uint8(*filter.Type))
	}
	if filter.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, int64(*filter.UserID))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, timestamp, user_id, amount_bits
		FROM records
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY seq ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []ir.Record{}
	for rows.Next() {
		var (
			code      uint8
			timestamp uint32
			userID    int64
			bits      sql.NullInt64
		)
		if err := rows.Scan(&code, &timestamp, &userID, &bits); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := ir.NewRecord(code, timestamp, uint64(userID), math.Float64frombits(uint64(bits.Int64)))
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ReadLoad rebuilds the decoded load stored under id.
func (s *Store) ReadLoad(ctx context.Context, id string) (*ledger.Load, error) {
	info, err := s.ReadLoadInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.ReadRecords(ctx, id, RecordFilter{})
	if err != nil {
		return nil, err
	}
	return &ledger.Load{
		Header: info.Header,
		Store:  ledger.FromRecords(records),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoadInfo(row rowScanner) (LoadInfo, error) {
	var info LoadInfo
	err := row.Scan(
		&info.ID,
		&info.Seq,
		&info.Source,
		&info.Header.Version,
		&info.Header.RecordCount,
		&info.DecodedCount,
		&info.SkippedCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return LoadInfo{}, err
	}
	if err != nil {
		return LoadInfo{}, fmt.Errorf("scan load: %w", err)
	}
	return info, nil
}
