package ledger

import (
	"github.com/roach88/mps7/internal/ir"
)

// userIndex keeps one type's records grouped by user, in first-seen order.
// Entries are positions in Store.log.
type userIndex struct {
	order  []uint64
	byUser map[uint64][]int
}

// Store is the Record Store: type -> user -> records in insertion order.
//
// Users are iterated in the order they first appeared for a type, so
// floating-point sums over the store are reproducible across runs.
type Store struct {
	log   []ir.Record
	types map[ir.RecordType]*userIndex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{types: make(map[ir.RecordType]*userIndex)}
}

// FromRecords builds a store by inserting records in order.
func FromRecords(records []ir.Record) *Store {
	s := NewStore()
	for _, r := range records {
		s.insert(r)
	}
	return s
}

// insert appends r under its type and user, creating either level on demand.
func (s *Store) insert(r ir.Record) {
	idx, ok := s.types[r.Type]
	if !ok {
		idx = &userIndex{byUser: make(map[uint64][]int)}
		s.types[r.Type] = idx
	}
	if _, seen := idx.byUser[r.UserID]; !seen {
		idx.order = append(idx.order, r.UserID)
	}
	idx.byUser[r.UserID] = append(idx.byUser[r.UserID], len(s.log))
	s.log = append(s.log, r)
}

// Len returns the total number of records.
func (s *Store) Len() int { return len(s.log) }

// Types returns the record types present, in code order.
func (s *Store) Types() []ir.RecordType {
	var out []ir.RecordType
	for _, t := range ir.RecordTypes {
		if _, ok := s.types[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Users returns the users with at least one record of type t, in the order
// they first appeared. Returns an empty slice (not nil) if there are none.
func (s *Store) Users(t ir.RecordType) []uint64 {
	idx, ok := s.types[t]
	if !ok {
		return []uint64{}
	}
	out := make([]uint64, len(idx.order))
	copy(out, idx.order)
	return out
}

// Records returns user's records of type t in file order.
func (s *Store) Records(t ir.RecordType, userID uint64) []ir.Record {
	idx, ok := s.types[t]
	if !ok {
		return []ir.Record{}
	}
	positions := idx.byUser[userID]
	out := make([]ir.Record, len(positions))
	for i, p := range positions {
		out[i] = s.log[p]
	}
	return out
}

// All returns every record in file order.
func (s *Store) All() []ir.Record {
	out := make([]ir.Record, len(s.log))
	copy(out, s.log)
	return out
}
