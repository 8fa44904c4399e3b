package ir

// Format constants for MPS7 logs.
const (
	// Magic is the 4-byte ASCII literal every log starts with.
	Magic = "MPS7"

	// HeaderBytes is the fixed header width: magic(4) + version(1) + count(4).
	HeaderBytes = 9

	// AutopayRecordBytes is the width of StartAutopay / EndAutopay records:
	// type(1) + timestamp(4) + user id(8).
	AutopayRecordBytes = 13

	// AccountRecordBytes is the width of Debit / Credit records: the autopay
	// layout followed by an 8-byte binary64 amount.
	AccountRecordBytes = 21
)

// Width returns the encoded size of a record of type t.
func (t RecordType) Width() int {
	if t.IsAccount() {
		return AccountRecordBytes
	}
	return AutopayRecordBytes
}
