package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/ledger"
	"github.com/roach88/mps7/internal/report"
	"github.com/roach88/mps7/internal/store"
	"github.com/roach88/mps7/internal/wire"
)

// roundTripLoadID names the load a scenario exports to its scratch store.
const roundTripLoadID = "harness-roundtrip"

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary is the decoded summary. Nil when decoding failed.
	Summary *report.Summary `json:"summary,omitempty"`

	// DecodeError is the decode error code, if decoding failed.
	DecodeError string `json:"decode_error,omitempty"`
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Encode the scenario log
//  2. Decode it with the scenario options
//  3. Check expectations against the decoded store
//  4. Export to a fresh in-memory SQLite store, read back, compare summaries
//
// A returned error means the scenario could not be run at all; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	buf, err := scenario.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode scenario log: %w", err)
	}

	result := &Result{Name: scenario.Name, Pass: true, Errors: []string{}}

	load, err := ledger.Decode(buf, ledger.Options{
		Lenient:              scenario.Options.Lenient,
		EnforceDeclaredCount: scenario.Options.StrictCount,
		Logger:               slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in scenarios
	})
	if err != nil {
		var de *wire.DecodeError
		if !errors.As(err, &de) {
			return nil, fmt.Errorf("decode scenario log: %w", err)
		}
		result.DecodeError = string(de.Code)
		switch {
		case scenario.Expect.Error == "":
			result.AddError("decode failed: %v", err)
		case scenario.Expect.Error != string(de.Code):
			result.AddError("expected error %s, got %s", scenario.Expect.Error, de.Code)
		}
		return result, nil
	}

	if scenario.Expect.Error != "" {
		result.AddError("expected error %s, decode succeeded", scenario.Expect.Error)
		return result, nil
	}

	userID := report.DefaultUserID
	if scenario.UserID != nil {
		userID = *scenario.UserID
	}
	summary, err := report.Build(load, userID)
	if err != nil {
		return nil, err
	}
	result.Summary = &summary

	checkExpectations(result, load, scenario.Expect)

	if err := checkRoundTrip(result, load, summary); err != nil {
		return nil, err
	}

	return result, nil
}

// checkExpectations compares the decoded load with every set expectation.
func checkExpectations(result *Result, load *ledger.Load, expect Expect) {
	st := load.Store

	if expect.DecodedRecords != nil && st.Len() != *expect.DecodedRecords {
		result.AddError("decoded_records: expected %d, got %d", *expect.DecodedRecords, st.Len())
	}
	if expect.SkippedRecords != nil && len(load.Skipped) != *expect.SkippedRecords {
		result.AddError("skipped_records: expected %d, got %d", *expect.SkippedRecords, len(load.Skipped))
	}

	checkTotal := func(name string, t ir.RecordType, want *float64) {
		if want == nil {
			return
		}
		got, err := st.TotalAmount(t)
		if err != nil {
			result.AddError("%s: %v", name, err)
			return
		}
		if got != *want {
			result.AddError("%s: expected %v, got %v", name, *want, got)
		}
	}
	checkTotal("total_debits", ir.Debit, expect.TotalDebits)
	checkTotal("total_credits", ir.Credit, expect.TotalCredits)

	for _, t := range ir.RecordTypes {
		want, ok := expect.Counts[t.String()]
		if !ok {
			continue
		}
		if got := st.CountByType(t); got != want {
			result.AddError("counts.%s: expected %d users, got %d", t, want, got)
		}
	}

	for _, b := range expect.Balances {
		if got := st.BalanceForUser(b.UserID); got != b.Balance {
			result.AddError("balance[%d]: expected %v, got %v", b.UserID, b.Balance, got)
		}
	}
}

// checkRoundTrip exports the load to an in-memory store and requires the
// reloaded summary to match. Totals that are NaN count as equal.
func checkRoundTrip(result *Result, load *ledger.Load, want report.Summary) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.WriteLoad(ctx, roundTripLoadID, "scenario:"+result.Name, load); err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	reloaded, err := st.ReadLoad(ctx, roundTripLoadID)
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}

	got, err := report.Build(reloaded, want.UserID)
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	// Skipped records are not persisted as records.
	got.SkippedRecords = want.SkippedRecords

	if !sameSummary(got, want) {
		result.AddError("round trip: reloaded summary %+v differs from decoded %+v", got, want)
	}
	return nil
}

func sameSummary(a, b report.Summary) bool {
	return a.Version == b.Version &&
		a.DeclaredRecords == b.DeclaredRecords &&
		a.DecodedRecords == b.DecodedRecords &&
		sameFloat(a.TotalDebits, b.TotalDebits) &&
		sameFloat(a.TotalCredits, b.TotalCredits) &&
		a.AutopaysStarted == b.AutopaysStarted &&
		a.AutopaysEnded == b.AutopaysEnded &&
		a.UserID == b.UserID &&
		sameFloat(a.UserBalance, b.UserBalance) &&
		a.SkippedRecords == b.SkippedRecords
}
