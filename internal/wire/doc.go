// Package wire implements the MPS7 binary codec.
//
// An MPS7 log is a 9-byte header followed by records until the end of the
// buffer. All multi-byte integers are big-endian; there is no padding,
// alignment or checksum.
//
//	+--------+---------+-------------+
//	| "MPS7" | version | recordCount |   header, 9 bytes
//	|  4B    |   1B    |   4B BE     |
//	+--------+---------+-------------+
//	| type | timestamp | user id | amount (debit/credit only) |
//	|  1B  |   4B BE   |  8B BE  |   8B BE binary64 bits      |
//	+------+-----------+---------+----------------------------+
//
// Decoding works over a complete in-memory buffer through a Cursor. Record
// decoding is all-or-nothing: a record is either returned whole or the call
// fails with a *DecodeError and the cursor does not move.
package wire
