package wire

import (
	"encoding/binary"
	"math"
)

// Cursor reads fixed-width big-endian values from a byte buffer.
// The buffer is never modified.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining reports the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves the cursor to an absolute offset within the buffer.
func (c *Cursor) Seek(pos int) {
	c.pos = min(max(pos, 0), len(c.buf))
}

// take returns the next n bytes and advances, or fails without moving.
func (c *Cursor) take(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, NewTruncatedError(c.pos, n, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadBytes returns the next n bytes. The slice aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32BE reads a big-endian uint32.
func (c *Cursor) ReadU32BE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU64BE reads a big-endian uint64.
func (c *Cursor) ReadU64BE() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadF64BitsBE reads 8 big-endian bytes and reinterprets them as binary64.
// NaN payloads and negative zero survive unchanged.
func (c *Cursor) ReadF64BitsBE() (float64, error) {
	bits, err := c.ReadU64BE()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
