package harness

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/wire"
)

//go:embed scenario.cue
var scenarioSchema string

// Scenario defines a conformance scenario: a log to build and the
// aggregates it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Magic overrides the first four bytes of the encoded log.
	Magic *string `yaml:"magic,omitempty"`

	// Version is the header version byte. Defaults to 1.
	Version *uint8 `yaml:"version,omitempty"`

	// DeclaredCount is the header record count. Defaults to len(Records).
	DeclaredCount *uint32 `yaml:"declared_count,omitempty"`

	// Records are encoded in order after the header.
	Records []RecordStep `yaml:"records"`

	// TailHex is appended verbatim after the records, for malformed input.
	TailHex string `yaml:"tail_hex,omitempty"`

	// Options selects the decode mode.
	Options DecodeOptions `yaml:"options,omitempty"`

	// UserID is the user whose balance the summary reports.
	// Defaults to report.DefaultUserID.
	UserID *uint64 `yaml:"user_id,omitempty"`

	// Expect holds the checks run after decoding.
	Expect Expect `yaml:"expect"`
}

// RecordStep is one record of the scenario log.
type RecordStep struct {
	Type      string   `yaml:"type"`
	Timestamp uint32   `yaml:"timestamp"`
	UserID    uint64   `yaml:"user_id"`
	Amount    *float64 `yaml:"amount,omitempty"`
}

// DecodeOptions mirrors ledger.Options in scenario files.
type DecodeOptions struct {
	Lenient     bool `yaml:"lenient,omitempty"`
	StrictCount bool `yaml:"strict_count,omitempty"`
}

// Expect lists the checks for a scenario. Unset fields are not checked.
type Expect struct {
	// Error is the expected decode error code. When set, no other field
	// may be set.
	Error string `yaml:"error,omitempty"`

	DecodedRecords *int           `yaml:"decoded_records,omitempty"`
	SkippedRecords *int           `yaml:"skipped_records,omitempty"`
	TotalDebits    *float64       `yaml:"total_debits,omitempty"`
	TotalCredits   *float64       `yaml:"total_credits,omitempty"`
	Counts         map[string]int `yaml:"counts,omitempty"`
	Balances       []Balance      `yaml:"balances,omitempty"`
}

// Balance is an expected per-user balance.
type Balance struct {
	UserID  uint64  `yaml:"user_id"`
	Balance float64 `yaml:"balance"`
}

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

// scenarioDefinition compiles the embedded CUE schema once.
func scenarioDefinition() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		schema := schemaCtx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
		if err := schema.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaDef = schema.LookupPath(cue.ParsePath("#Scenario"))
	})
	return schemaCtx, schemaDef, schemaErr
}

// LoadScenario reads, schema-checks and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or violates the scenario schema.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario parses scenario YAML. filename is used in error positions.
func ParseScenario(filename string, data []byte) (*Scenario, error) {
	if err := checkSchema(filename, data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "record:" vs "records:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// checkSchema unifies the document with #Scenario and requires a concrete result.
func checkSchema(filename string, data []byte) error {
	ctx, def, err := scenarioDefinition()
	if err != nil {
		return err
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("read YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build YAML: %w", err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// validateScenario checks the rules the schema does not express.
func validateScenario(s *Scenario) error {
	for i, rec := range s.Records {
		t, err := ir.RecordTypeByName(rec.Type)
		if err != nil {
			return fmt.Errorf("records[%d]: %w", i, err)
		}
		if t.IsAccount() && rec.Amount == nil {
			return fmt.Errorf("records[%d]: %s record requires an amount", i, t)
		}
		if t.IsAutopay() && rec.Amount != nil {
			return fmt.Errorf("records[%d]: %s record must not carry an amount", i, t)
		}
	}

	if s.Magic != nil && len(*s.Magic) != len(ir.Magic) {
		return fmt.Errorf("magic must be %d bytes, got %d", len(ir.Magic), len(*s.Magic))
	}

	if _, err := hex.DecodeString(s.TailHex); err != nil {
		return fmt.Errorf("tail_hex: %w", err)
	}

	for name := range s.Expect.Counts {
		if _, err := ir.RecordTypeByName(name); err != nil {
			return fmt.Errorf("expect.counts: %w", err)
		}
	}

	e := s.Expect
	checks := e.DecodedRecords != nil || e.SkippedRecords != nil ||
		e.TotalDebits != nil || e.TotalCredits != nil ||
		len(e.Counts) > 0 || len(e.Balances) > 0
	if e.Error != "" && checks {
		return fmt.Errorf("expect.error cannot be combined with other expectations")
	}
	if e.Error == "" && !checks {
		return fmt.Errorf("expect must set error or at least one check")
	}

	return nil
}

// Encode builds the MPS7 bytes the scenario describes.
func (s *Scenario) Encode() ([]byte, error) {
	records := make([]ir.Record, 0, len(s.Records))
	for i, step := range s.Records {
		t, err := ir.RecordTypeByName(step.Type)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		var amount float64
		if step.Amount != nil {
			amount = *step.Amount
		}
		rec, err := ir.NewRecord(uint8(t), step.Timestamp, step.UserID, amount)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		records = append(records, rec)
	}

	header := ir.Header{Version: 1, RecordCount: uint32(len(records))}
	if s.Version != nil {
		header.Version = *s.Version
	}
	if s.DeclaredCount != nil {
		header.RecordCount = *s.DeclaredCount
	}

	buf := wire.Encode(header, records...)
	if s.Magic != nil {
		copy(buf[:len(ir.Magic)], *s.Magic)
	}

	tail, err := hex.DecodeString(s.TailHex)
	if err != nil {
		return nil, fmt.Errorf("tail_hex: %w", err)
	}
	return append(buf, tail...), nil
}
