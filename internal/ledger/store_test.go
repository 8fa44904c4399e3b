package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/testutil"
)

func TestStoreGroupsByTypeAndUser(t *testing.T) {
	s := FromRecords([]ir.Record{
		testutil.Debit(1, 20, 1),
		testutil.StartAutopay(2, 10),
		testutil.Debit(3, 10, 2),
		testutil.Debit(4, 20, 3),
	})

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []ir.RecordType{ir.Debit, ir.StartAutopay}, s.Types())
	assert.Equal(t, []uint64{20, 10}, s.Users(ir.Debit), "users in first-seen order")
	assert.Equal(t, []ir.Record{
		testutil.Debit(1, 20, 1),
		testutil.Debit(4, 20, 3),
	}, s.Records(ir.Debit, 20))
}

func TestStoreMissingLevels(t *testing.T) {
	s := FromRecords([]ir.Record{testutil.Credit(1, 5, 10)})

	assert.NotNil(t, s.Users(ir.Debit))
	assert.Empty(t, s.Users(ir.Debit))
	assert.Empty(t, s.Records(ir.Debit, 5))
	assert.Empty(t, s.Records(ir.Credit, 6))
}

func TestStoreAllKeepsFileOrder(t *testing.T) {
	records := testutil.ReferenceRecords()
	s := FromRecords(records)
	assert.Equal(t, records, s.All())

	// The returned slice is a copy.
	all := s.All()
	all[0] = testutil.Credit(0, 0, 0)
	assert.Equal(t, records[0], s.All()[0])
}

func TestEmptyStore(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Types())
	assert.Empty(t, s.All())
}
