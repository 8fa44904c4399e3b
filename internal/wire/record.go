package wire

import (
	"encoding/binary"
	"math"

	"github.com/roach88/mps7/internal/ir"
)

// DecodeRecord consumes one record from c.
//
// Autopay records consume 13 bytes and account records 21. If any field is
// short, or the type byte is unknown, DecodeRecord returns a *DecodeError
// and restores the cursor to the start of the record.
func DecodeRecord(c *Cursor) (ir.Record, error) {
	start := c.Pos()
	rec, err := decodeRecord(c, start)
	if err != nil {
		c.Seek(start)
		return ir.Record{}, err
	}
	return rec, nil
}

func decodeRecord(c *Cursor, start int) (ir.Record, error) {
	code, err := c.ReadU8()
	if err != nil {
		return ir.Record{}, err
	}
	t, err := ir.ParseRecordType(code)
	if err != nil {
		return ir.Record{}, NewUnknownRecordTypeError(start, code)
	}

	timestamp, err := c.ReadU32BE()
	if err != nil {
		return ir.Record{}, err
	}
	userID, err := c.ReadU64BE()
	if err != nil {
		return ir.Record{}, err
	}

	if !t.IsAccount() {
		return ir.NewAutopayRecord(t, timestamp, userID)
	}

	amount, err := c.ReadF64BitsBE()
	if err != nil {
		return ir.Record{}, err
	}
	return ir.NewAccountRecord(t, timestamp, userID, amount)
}

// AppendRecord appends the encoded record to dst. Autopay records are
// written without an amount field.
func AppendRecord(dst []byte, r ir.Record) []byte {
	dst = append(dst, uint8(r.Type))
	dst = binary.BigEndian.AppendUint32(dst, r.Timestamp)
	dst = binary.BigEndian.AppendUint64(dst, r.UserID)
	if amount, ok := r.Amount(); ok {
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(amount))
	}
	return dst
}

// Encode builds a complete log from a header and records.
func Encode(h ir.Header, records ...ir.Record) []byte {
	size := ir.HeaderBytes
	for _, r := range records {
		size += r.Type.Width()
	}
	buf := AppendHeader(make([]byte, 0, size), h)
	for _, r := range records {
		buf = AppendRecord(buf, r)
	}
	return buf
}
