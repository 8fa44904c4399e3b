package ledger

import (
	"errors"
	"fmt"

	"github.com/roach88/mps7/internal/ir"
)

// ErrInvalidArgument is returned when a query is asked about a record type
// it does not apply to.
var ErrInvalidArgument = errors.New("ledger: invalid argument")

// TotalAmount sums the amounts of every Debit or Credit record across all
// users. Autopay types fail with ErrInvalidArgument. Returns 0 when the type
// has no records.
func (s *Store) TotalAmount(t ir.RecordType) (float64, error) {
	if !t.IsAccount() {
		return 0, fmt.Errorf("%w: total amount requires debit or credit, got %s", ErrInvalidArgument, t)
	}
	idx, ok := s.types[t]
	if !ok {
		return 0, nil
	}
	var total float64
	for _, u := range idx.order {
		total += s.sumAmounts(idx.byUser[u])
	}
	return total, nil
}

// CountByType returns the number of distinct users with at least one record
// of type t. This is NOT the number of records of that type.
func (s *Store) CountByType(t ir.RecordType) int {
	idx, ok := s.types[t]
	if !ok {
		return 0
	}
	return len(idx.order)
}

// RecordCount returns the number of records of type t.
func (s *Store) RecordCount(t ir.RecordType) int {
	idx, ok := s.types[t]
	if !ok {
		return 0
	}
	n := 0
	for _, positions := range idx.byUser {
		n += len(positions)
	}
	return n
}

// BalanceForUser returns the user's credits minus debits. A side the user
// has no records for contributes 0; unknown users have a balance of 0.
func (s *Store) BalanceForUser(userID uint64) float64 {
	return s.userTotal(ir.Credit, userID) - s.userTotal(ir.Debit, userID)
}

func (s *Store) userTotal(t ir.RecordType, userID uint64) float64 {
	idx, ok := s.types[t]
	if !ok {
		return 0
	}
	return s.sumAmounts(idx.byUser[userID])
}

// sumAmounts adds the amounts at the given log positions in order.
func (s *Store) sumAmounts(positions []int) float64 {
	var total float64
	for _, p := range positions {
		if amount, ok := s.log[p].Amount(); ok {
			total += amount
		}
	}
	return total
}
