package store

import (
	"context"
	"math"
	"testing"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/testutil"
)

func TestWriteLoad_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	load := createTestLoad(t,
		testutil.Debit(220, testutil.UserOne, 200.45),
		testutil.StartAutopay(400, testutil.UserOne),
	)
	if err := s.WriteLoad(ctx, "load-1", "txnlog.dat", load); err != nil {
		t.Fatalf("WriteLoad() failed: %v", err)
	}

	var (
		source                string
		seq                   int64
		version               int
		declared, decoded, sk int
	)
	err := s.db.QueryRow(`
		SELECT seq, source, version, declared_count, decoded_count, skipped_count
		FROM loads WHERE id = ?
	`, "load-1").Scan(&seq, &source, &version, &declared, &decoded, &sk)
	if err != nil {
		t.Fatalf("query load: %v", err)
	}
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	if source != "txnlog.dat" {
		t.Errorf("source = %q, want %q", source, "txnlog.dat")
	}
	if version != 1 || declared != 2 || decoded != 2 || sk != 0 {
		t.Errorf("counts = (v%d, %d, %d, %d), want (v1, 2, 2, 0)", version, declared, decoded, sk)
	}

	// Amount columns follow the record variant.
	rows, err := s.Query(ctx, `SELECT type, amount_bits IS NULL, amount FROM records WHERE load_id = ? ORDER BY seq`, "load-1")
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	defer rows.Close()

	type row struct {
		typ      int
		bitsNull bool
		amount   *float64
	}
	var got []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.typ, &r.bitsNull, &r.amount); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(got))
	}
	if got[0].typ != 0 || got[0].bitsNull || got[0].amount == nil || *got[0].amount != 200.45 {
		t.Errorf("debit row = %+v", got[0])
	}
	if got[1].typ != 2 || !got[1].bitsNull || got[1].amount != nil {
		t.Errorf("autopay row = %+v", got[1])
	}
}

func TestWriteLoad_SequenceIncrements(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	load := createTestLoad(t, testutil.Credit(1, 1, 1))

	for i, id := range []string{"a", "b", "c"} {
		if err := s.WriteLoad(ctx, id, "test", load); err != nil {
			t.Fatalf("WriteLoad(%s) failed: %v", id, err)
		}
		info, err := s.ReadLoadInfo(ctx, id)
		if err != nil {
			t.Fatalf("ReadLoadInfo(%s) failed: %v", id, err)
		}
		if info.Seq != int64(i+1) {
			t.Errorf("seq(%s) = %d, want %d", id, info.Seq, i+1)
		}
	}
}

func TestWriteLoad_DuplicateIDFails(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	load := createTestLoad(t, testutil.Credit(1, 1, 1))

	if err := s.WriteLoad(ctx, "dup", "test", load); err != nil {
		t.Fatalf("first WriteLoad() failed: %v", err)
	}
	if err := s.WriteLoad(ctx, "dup", "test", load); err == nil {
		t.Fatal("expected error writing duplicate load id")
	}

	// The failed write left nothing behind.
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}

func TestWriteLoad_HighBitUserID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	load := createTestLoad(t, testutil.Debit(1, math.MaxUint64, 1), testutil.Debit(2, testutil.UserOne, 2))
	if err := s.WriteLoad(ctx, "l", "test", load); err != nil {
		t.Fatalf("WriteLoad() failed: %v", err)
	}

	records, err := s.ReadRecords(ctx, "l", RecordFilter{})
	if err != nil {
		t.Fatalf("ReadRecords() failed: %v", err)
	}
	if records[0].UserID != math.MaxUint64 {
		t.Errorf("user id = %d, want %d", records[0].UserID, uint64(math.MaxUint64))
	}
	if records[1].UserID != testutil.UserOne {
		t.Errorf("user id = %d, want %d", records[1].UserID, testutil.UserOne)
	}
}

func TestWriteLoad_SpecialAmountsKeepBits(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	amounts := []float64{
		math.Copysign(0, -1),
		math.Inf(1),
		math.Inf(-1),
		math.Float64frombits(0x7ff8000000000001),
		math.SmallestNonzeroFloat64,
	}
	records := make([]ir.Record, len(amounts))
	for i, a := range amounts {
		records[i] = testutil.Credit(uint32(i), 9, a)
	}

	if err := s.WriteLoad(ctx, "bits", "test", createTestLoad(t, records...)); err != nil {
		t.Fatalf("WriteLoad() failed: %v", err)
	}

	back, err := s.ReadRecords(ctx, "bits", RecordFilter{})
	if err != nil {
		t.Fatalf("ReadRecords() failed: %v", err)
	}
	for i, rec := range back {
		got, ok := rec.Amount()
		if !ok {
			t.Fatalf("record %d lost its amount", i)
		}
		if math.Float64bits(got) != math.Float64bits(amounts[i]) {
			t.Errorf("record %d bits = %#x, want %#x", i, math.Float64bits(got), math.Float64bits(amounts[i]))
		}
	}

	// NaN is stored without a REAL copy.
	var nullAmounts int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records WHERE amount IS NULL").Scan(&nullAmounts); err != nil {
		t.Fatalf("count: %v", err)
	}
	if nullAmounts != 1 {
		t.Errorf("rows with NULL amount = %d, want 1", nullAmounts)
	}
}

func TestWriteLoad_SkippedCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	buf := append(testutil.EncodeLog(testutil.Debit(1, 1, 1)), 0x0a, 0x0b)
	load := decodeLenient(t, buf)

	if err := s.WriteLoad(ctx, "lenient", "test", load); err != nil {
		t.Fatalf("WriteLoad() failed: %v", err)
	}
	info, err := s.ReadLoadInfo(ctx, "lenient")
	if err != nil {
		t.Fatalf("ReadLoadInfo() failed: %v", err)
	}
	if info.SkippedCount != 2 {
		t.Errorf("skipped_count = %d, want 2", info.SkippedCount)
	}
	if info.DecodedCount != 1 {
		t.Errorf("decoded_count = %d, want 1", info.DecodedCount)
	}
}
