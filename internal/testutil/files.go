package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// FixedLoadID generates the same load id every time.
//
// This keeps CLI output byte-identical across runs when a test exports a
// single load. Unlike store.FixedGenerator, which hands out ids in sequence,
// FixedLoadID never runs out.
//
// Thread-safety: FixedLoadID is stateless and safe for concurrent use.
type FixedLoadID string

// Generate returns the fixed id, or "test-load-default" when empty.
//
// Implements store.LoadIDGenerator.
func (id FixedLoadID) Generate() string {
	if id == "" {
		return "test-load-default"
	}
	return string(id)
}
