// Package report renders the standard MPS7 summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/mps7/internal/ir"
	"github.com/roach88/mps7/internal/ledger"
)

// DefaultUserID is the user whose balance the summary reports when none is given.
const DefaultUserID uint64 = 2456938384156277127

// Summary holds the five headline figures for one log.
type Summary struct {
	Version         uint8   `json:"version"`
	DeclaredRecords uint32  `json:"declared_records"`
	DecodedRecords  int     `json:"decoded_records"`
	TotalDebits     float64 `json:"total_debits"`
	TotalCredits    float64 `json:"total_credits"`
	AutopaysStarted int     `json:"autopays_started"`
	AutopaysEnded   int     `json:"autopays_ended"`
	UserID          uint64  `json:"user_id"`
	UserBalance     float64 `json:"user_balance"`
	SkippedRecords  int     `json:"skipped_records,omitempty"`
}

// Build computes the summary for a decoded load.
//
// Autopay figures come from CountByType and therefore count distinct users.
func Build(load *ledger.Load, userID uint64) (Summary, error) {
	debits, err := load.Store.TotalAmount(ir.Debit)
	if err != nil {
		return Summary{}, fmt.Errorf("build summary: %w", err)
	}
	credits, err := load.Store.TotalAmount(ir.Credit)
	if err != nil {
		return Summary{}, fmt.Errorf("build summary: %w", err)
	}

	return Summary{
		Version:         load.Header.Version,
		DeclaredRecords: load.Header.RecordCount,
		DecodedRecords:  load.Store.Len(),
		TotalDebits:     debits,
		TotalCredits:    credits,
		AutopaysStarted: load.Store.CountByType(ir.StartAutopay),
		AutopaysEnded:   load.Store.CountByType(ir.EndAutopay),
		UserID:          userID,
		UserBalance:     load.Store.BalanceForUser(userID),
		SkippedRecords:  len(load.Skipped),
	}, nil
}

// WriteText writes the human-readable summary. Amounts are rounded to cents
// and grouped with English separators.
func WriteText(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.English)
	lines := []string{
		p.Sprintf("Total amount (in dollars) of debits: %s", Dollars(p, s.TotalDebits)),
		p.Sprintf("Total amount (in dollars) of credits: %s", Dollars(p, s.TotalCredits)),
		p.Sprintf("Total number of autopays started: %d", s.AutopaysStarted),
		p.Sprintf("Total number of autopays ended: %d", s.AutopaysEnded),
		p.Sprintf("balance of user ID %s: %s", strconv.FormatUint(s.UserID, 10), Dollars(p, s.UserBalance)),
	}
	if s.SkippedRecords > 0 {
		lines = append(lines, p.Sprintf("Skipped malformed records: %d", s.SkippedRecords))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the summary as a single JSON object.
func WriteJSON(w io.Writer, s Summary) error {
	return json.NewEncoder(w).Encode(s)
}

// Dollars formats v as "$1,234.56", with the sign ahead of the symbol.
func Dollars(p *message.Printer, v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	if v < 0 {
		return p.Sprintf("-$%.2f", -v)
	}
	return p.Sprintf("$%.2f", v)
}
