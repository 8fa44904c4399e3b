package ir

import (
	"encoding/json"
	"fmt"
)

// RecordType is the closed set of MPS7 record tags.
type RecordType uint8

// Record type codes as they appear in the first byte of every record.
const (
	Debit        RecordType = 0x00
	Credit       RecordType = 0x01
	StartAutopay RecordType = 0x02
	EndAutopay   RecordType = 0x03
)

// RecordTypes lists every valid record type in code order.
var RecordTypes = []RecordType{Debit, Credit, StartAutopay, EndAutopay}

var recordTypeNames = map[RecordType]string{
	Debit:        "debit",
	Credit:       "credit",
	StartAutopay: "start_autopay",
	EndAutopay:   "end_autopay",
}

// ParseRecordType converts a raw type code into a RecordType.
// Returns an error for any code outside {0,1,2,3}.
func ParseRecordType(code uint8) (RecordType, error) {
	t := RecordType(code)
	if !t.Valid() {
		return 0, fmt.Errorf("unknown record type code 0x%02x", code)
	}
	return t, nil
}

// RecordTypeByName resolves the snake_case name used in JSON, YAML and CLI flags.
func RecordTypeByName(name string) (RecordType, error) {
	for t, n := range recordTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown record type %q", name)
}

// Valid reports whether t is one of the four defined record types.
func (t RecordType) Valid() bool {
	return t <= EndAutopay
}

// IsAccount reports whether records of this type carry an amount.
func (t RecordType) IsAccount() bool {
	return t == Debit || t == Credit
}

// IsAutopay reports whether t is StartAutopay or EndAutopay.
func (t RecordType) IsAutopay() bool {
	return t == StartAutopay || t == EndAutopay
}

// String returns the snake_case name, or "unknown(0x..)" for invalid codes.
func (t RecordType) String() string {
	if n, ok := recordTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(t))
}

// MarshalJSON encodes the type by name.
func (t RecordType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal record type: invalid code 0x%02x", uint8(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a type name.
func (t *RecordType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := RecordTypeByName(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Record is a decoded MPS7 record.
//
// Account records (Debit, Credit) carry an amount; Autopay records
// (StartAutopay, EndAutopay) do not. The zero Record is not valid.
type Record struct {
	Type      RecordType
	Timestamp uint32
	UserID    uint64

	amount float64
}

// NewAccountRecord builds a Debit or Credit record.
func NewAccountRecord(t RecordType, timestamp uint32, userID uint64, amount float64) (Record, error) {
	if !t.IsAccount() {
		return Record{}, fmt.Errorf("account record requires debit or credit, got %s", t)
	}
	return Record{Type: t, Timestamp: timestamp, UserID: userID, amount: amount}, nil
}

// NewAutopayRecord builds a StartAutopay or EndAutopay record.
func NewAutopayRecord(t RecordType, timestamp uint32, userID uint64) (Record, error) {
	if !t.IsAutopay() {
		return Record{}, fmt.Errorf("autopay record requires start_autopay or end_autopay, got %s", t)
	}
	return Record{Type: t, Timestamp: timestamp, UserID: userID}, nil
}

// NewRecord builds a record from a raw type code. amount is ignored for
// autopay codes.
func NewRecord(code uint8, timestamp uint32, userID uint64, amount float64) (Record, error) {
	t, err := ParseRecordType(code)
	if err != nil {
		return Record{}, err
	}
	if t.IsAccount() {
		return NewAccountRecord(t, timestamp, userID, amount)
	}
	return NewAutopayRecord(t, timestamp, userID)
}

// Amount returns the record amount. ok is false for autopay records.
func (r Record) Amount() (amount float64, ok bool) {
	if !r.Type.IsAccount() {
		return 0, false
	}
	return r.amount, true
}

// recordJSON is the wire shape of Record in JSON output.
type recordJSON struct {
	Type      RecordType `json:"type"`
	Timestamp uint32     `json:"timestamp"`
	UserID    uint64     `json:"user_id"`
	Amount    *float64   `json:"amount,omitempty"`
}

// MarshalJSON omits the amount for autopay records.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{Type: r.Type, Timestamp: r.Timestamp, UserID: r.UserID}
	if amount, ok := r.Amount(); ok {
		out.Amount = &amount
	}
	return json.Marshal(out)
}

// UnmarshalJSON enforces the variant rules of the constructors.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var (
		rec Record
		err error
	)
	if in.Type.IsAccount() {
		if in.Amount == nil {
			return fmt.Errorf("%s record requires an amount", in.Type)
		}
		rec, err = NewAccountRecord(in.Type, in.Timestamp, in.UserID, *in.Amount)
	} else {
		if in.Amount != nil {
			return fmt.Errorf("%s record must not carry an amount", in.Type)
		}
		rec, err = NewAutopayRecord(in.Type, in.Timestamp, in.UserID)
	}
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// Header is the fixed 9-byte preamble of an MPS7 log.
type Header struct {
	Version     uint8  `json:"version"`
	RecordCount uint32 `json:"record_count"` // declared, advisory only
}
