package wire

import (
	"errors"
	"fmt"
)

// DecodeError represents a failure to decode an MPS7 buffer.
//
// DecodeError includes structured fields for diagnostics:
//   - Code identifies the failure category
//   - Offset is the buffer position where the failing field starts
//   - Details carries additional context (wanted/remaining bytes, raw codes)
type DecodeError struct {
	// Code identifies the error category.
	Code DecodeErrorCode

	// Message is a human-readable description.
	Message string

	// Offset is the byte offset the failing read started at.
	Offset int

	// Details contains additional context.
	Details map[string]string
}

// DecodeErrorCode categorizes decode errors.
type DecodeErrorCode string

const (
	// ErrCodeFormat indicates the header magic is not "MPS7".
	ErrCodeFormat DecodeErrorCode = "FORMAT"

	// ErrCodeTruncated indicates fewer bytes remain than a field requires.
	ErrCodeTruncated DecodeErrorCode = "TRUNCATED_BUFFER"

	// ErrCodeUnknownRecordType indicates a type byte outside {0,1,2,3}.
	ErrCodeUnknownRecordType DecodeErrorCode = "UNKNOWN_RECORD_TYPE"

	// ErrCodeDeclaredCountMismatch indicates the header record count differs
	// from the number of records decoded. Only raised when enforcement is on.
	ErrCodeDeclaredCountMismatch DecodeErrorCode = "DECLARED_COUNT_MISMATCH"
)

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s (offset=%d)", e.Code, e.Message, e.Offset)
}

// IsFormatError returns true if err is a bad magic error.
// Uses errors.As to handle wrapped errors.
func IsFormatError(err error) bool {
	return hasCode(err, ErrCodeFormat)
}

// IsTruncatedError returns true if err reports a buffer that ended early.
func IsTruncatedError(err error) bool {
	return hasCode(err, ErrCodeTruncated)
}

// IsUnknownRecordTypeError returns true if err reports an invalid type byte.
func IsUnknownRecordTypeError(err error) bool {
	return hasCode(err, ErrCodeUnknownRecordType)
}

// IsDeclaredCountMismatch returns true if err reports a header count that
// does not match the decoded records.
func IsDeclaredCountMismatch(err error) bool {
	return hasCode(err, ErrCodeDeclaredCountMismatch)
}

func hasCode(err error, code DecodeErrorCode) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// NewFormatError creates a DecodeError for a bad magic value.
func NewFormatError(got []byte) *DecodeError {
	return &DecodeError{
		Code:    ErrCodeFormat,
		Message: fmt.Sprintf("bad magic %q, expected %q", got, "MPS7"),
		Offset:  0,
	}
}

// NewTruncatedError creates a DecodeError for a short read.
func NewTruncatedError(offset, want, remaining int) *DecodeError {
	return &DecodeError{
		Code:    ErrCodeTruncated,
		Message: fmt.Sprintf("need %d bytes, %d remaining", want, remaining),
		Offset:  offset,
		Details: map[string]string{
			"want":      fmt.Sprintf("%d", want),
			"remaining": fmt.Sprintf("%d", remaining),
		},
	}
}

// NewUnknownRecordTypeError creates a DecodeError for an invalid type byte.
func NewUnknownRecordTypeError(offset int, code uint8) *DecodeError {
	return &DecodeError{
		Code:    ErrCodeUnknownRecordType,
		Message: fmt.Sprintf("unknown record type code 0x%02x", code),
		Offset:  offset,
		Details: map[string]string{
			"code": fmt.Sprintf("%d", code),
		},
	}
}

// NewDeclaredCountMismatchError creates a DecodeError for a header count that
// disagrees with the decoded records. offset is the end of the buffer.
func NewDeclaredCountMismatchError(offset int, declared uint32, decoded int) *DecodeError {
	return &DecodeError{
		Code:    ErrCodeDeclaredCountMismatch,
		Message: fmt.Sprintf("header declares %d records, decoded %d", declared, decoded),
		Offset:  offset,
		Details: map[string]string{
			"declared": fmt.Sprintf("%d", declared),
			"decoded":  fmt.Sprintf("%d", decoded),
		},
	}
}
