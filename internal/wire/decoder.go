package wire

import (
	"io"
	"iter"

	"github.com/roach88/mps7/internal/ir"
)

// Decoder walks the records of a complete MPS7 buffer one at a time.
type Decoder struct {
	cur    *Cursor
	header ir.Header
}

// NewDecoder validates the header of buf and positions a decoder at the
// first record.
func NewDecoder(buf []byte) (*Decoder, error) {
	cur := NewCursor(buf)
	h, err := DecodeHeader(cur)
	if err != nil {
		return nil, err
	}
	return &Decoder{cur: cur, header: h}, nil
}

// Header returns the decoded header.
func (d *Decoder) Header() ir.Header { return d.header }

// Offset returns the position of the next record.
func (d *Decoder) Offset() int { return d.cur.Pos() }

// More reports whether unread bytes remain.
func (d *Decoder) More() bool { return d.cur.Remaining() > 0 }

// Next decodes the next record. It returns io.EOF once the buffer is
// exhausted. After an error the decoder stays at the failing record.
func (d *Decoder) Next() (ir.Record, error) {
	if !d.More() {
		return ir.Record{}, io.EOF
	}
	return DecodeRecord(d.cur)
}

// Skip advances past n bytes without decoding them.
func (d *Decoder) Skip(n int) {
	d.cur.Seek(d.cur.Pos() + n)
}

// Records returns a lazy sequence over the records of buf.
//
// Each range over the sequence starts again from the header. A header or
// record error is yielded once as the final element; no partial record is
// ever yielded.
func Records(buf []byte) iter.Seq2[ir.Record, error] {
	return func(yield func(ir.Record, error) bool) {
		d, err := NewDecoder(buf)
		if err != nil {
			yield(ir.Record{}, err)
			return
		}
		for {
			rec, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(ir.Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
