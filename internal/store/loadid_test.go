package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	if a == b {
		t.Fatalf("generated duplicate id %q", a)
	}

	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("uuid.Parse(%q) failed: %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("version = %d, want 7", parsed.Version())
	}
	if a >= b {
		t.Errorf("ids not time-ordered: %q >= %q", a, b)
	}
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("one", "two")
	if got := gen.Generate(); got != "one" {
		t.Errorf("first = %q, want one", got)
	}
	if got := gen.Generate(); got != "two" {
		t.Errorf("second = %q, want two", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when ids are exhausted")
		}
	}()
	gen.Generate()
}
