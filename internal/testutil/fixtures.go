// Package testutil provides fixtures for building MPS7 logs in tests.
package testutil

import (
	"testing"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/wire"
)

// Users in the reference data set.
const (
	UserOne   uint64 = 17337865973615628454
	UserTwo   uint64 = 7299386991593269749
	UserThree uint64 = 4660829384912539755
	UserFour  uint64 = 6123808318520183820
)

// Expected aggregates over ReferenceRecords.
const (
	ReferenceTotalDebits  = 3591.06
	ReferenceTotalCredits = 21632.11
	ReferenceBalanceOne   = 1690.52
	ReferenceBalanceThree = 183.25
)

// Debit returns a debit record, panicking on construction errors.
func Debit(timestamp uint32, userID uint64, amount float64) ir.Record {
	return must(ir.NewAccountRecord(ir.Debit, timestamp, userID, amount))
}

// Credit returns a credit record.
func Credit(timestamp uint32, userID uint64, amount float64) ir.Record {
	return must(ir.NewAccountRecord(ir.Credit, timestamp, userID, amount))
}

// StartAutopay returns a start-autopay record.
func StartAutopay(timestamp uint32, userID uint64) ir.Record {
	return must(ir.NewAutopayRecord(ir.StartAutopay, timestamp, userID))
}

// EndAutopay returns an end-autopay record.
func EndAutopay(timestamp uint32, userID uint64) ir.Record {
	return must(ir.NewAutopayRecord(ir.EndAutopay, timestamp, userID))
}

func must(r ir.Record, err error) ir.Record {
	if err != nil {
		panic(err)
	}
	return r
}

// ReferenceRecords returns the reference data set: three users with debits,
// four with credits, three who started autopay and two who ended it.
func ReferenceRecords() []ir.Record {
	return []ir.Record{
		Debit(220, UserOne, 200.45),
		Debit(421, UserOne, 100.55),
		Debit(122, UserOne, 123.38),
		Debit(723, UserOne, 865.43),
		Debit(945, UserOne, 20.12),
		Debit(220, UserTwo, 2000.45),
		Debit(421, UserTwo, 50.55),
		Debit(122, UserTwo, 13.38),
		Debit(220, UserThree, 20.75),
		Debit(421, UserThree, 10.45),
		Debit(723, UserThree, 65.43),
		Debit(945, UserThree, 120.12),

		Credit(345, UserOne, 3000.45),
		Credit(305, UserTwo, 5000),
		Credit(421, UserTwo, 230.45),
		Credit(987, UserThree, 400),
		Credit(550, UserFour, 12000.75),
		Credit(422, UserFour, 1000.46),

		StartAutopay(400, UserOne),
		StartAutopay(500, UserTwo),
		StartAutopay(800, UserTwo),
		StartAutopay(700, UserFour),
		StartAutopay(910, UserFour),
		StartAutopay(7100, UserFour),

		EndAutopay(500, UserTwo),
		EndAutopay(676, UserTwo),
		EndAutopay(840, UserFour),
		EndAutopay(1340, UserFour),
	}
}

// EncodeLog encodes records behind a version-1 header whose declared count
// matches len(records).
func EncodeLog(records ...ir.Record) []byte {
	return wire.Encode(ir.Header{Version: 1, RecordCount: uint32(len(records))}, records...)
}

// ReferenceLog returns ReferenceRecords encoded as an MPS7 buffer.
func ReferenceLog() []byte {
	return EncodeLog(ReferenceRecords()...)
}

// WriteLog writes buf to a file in a fresh temp dir and returns its path.
func WriteLog(t *testing.T, buf []byte) string {
	t.Helper()
	return writeFile(t, "txnlog.dat", buf)
}
