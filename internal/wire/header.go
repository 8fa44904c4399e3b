package wire

import (
	"encoding/binary"
	"strings"

	"github.com/roach88/mps7/internal/ir"
)

// DecodeHeader consumes the 9-byte header from c.
//
// The magic is checked before anything else, so a buffer that does not start
// with "MPS7" fails with a format error regardless of its length past the
// magic. On failure the cursor is left where it started.
func DecodeHeader(c *Cursor) (ir.Header, error) {
	start := c.Pos()

	if c.Remaining() < len(ir.Magic) {
		// A short buffer that already disagrees with the magic is a format
		// error, not a truncation.
		head := c.buf[start:]
		if !strings.HasPrefix(ir.Magic, string(head)) {
			return ir.Header{}, NewFormatError(head)
		}
	}
	magic, err := c.ReadBytes(len(ir.Magic))
	if err != nil {
		return ir.Header{}, err
	}
	if string(magic) != ir.Magic {
		c.Seek(start)
		return ir.Header{}, NewFormatError(magic)
	}

	version, err := c.ReadU8()
	if err != nil {
		c.Seek(start)
		return ir.Header{}, err
	}
	count, err := c.ReadU32BE()
	if err != nil {
		c.Seek(start)
		return ir.Header{}, err
	}

	return ir.Header{Version: version, RecordCount: count}, nil
}

// AppendHeader appends the encoded header to dst.
func AppendHeader(dst []byte, h ir.Header) []byte {
	dst = append(dst, ir.Magic...)
	dst = append(dst, h.Version)
	return binary.BigEndian.AppendUint32(dst, h.RecordCount)
}
