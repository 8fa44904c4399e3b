// Package harness runs MPS7 conformance scenarios.
//
// A scenario describes a log as a list of records, encodes it with the wire
// package, decodes it with the ledger package and checks the aggregates
// against expectations. Scenarios that decode successfully are also
// exported to an in-memory SQLite store and read back, and the reloaded
// summary must match the decoded one.
//
// # Scenario Format
//
// Scenarios are YAML files validated against the CUE schema in
// scenario.cue before they run:
//
//	name: reference_totals
//	description: "Debits and credits of the reference data set"
//	version: 1                # optional, default 1
//	declared_count: 28        # optional, default len(records)
//	magic: "MPS7"             # optional, overrides the first 4 bytes
//	records:
//	  - { type: debit, timestamp: 220, user_id: 17337865973615628454, amount: 200.45 }
//	  - { type: start_autopay, timestamp: 400, user_id: 17337865973615628454 }
//	tail_hex: "04"            # optional raw bytes appended after the records
//	options:
//	  lenient: false
//	  strict_count: false
//	user_id: 17337865973615628454   # balance reported in the summary
//	expect:
//	  decoded_records: 28
//	  total_debits: 3591.06
//	  total_credits: 21632.11
//	  counts: { start_autopay: 3, end_autopay: 2 }
//	  balances:
//	    - { user_id: 17337865973615628454, balance: 1690.52 }
//
// A scenario expecting a failure sets expect.error to a decode error code
// (FORMAT, TRUNCATED_BUFFER, UNKNOWN_RECORD_TYPE, DECLARED_COUNT_MISMATCH).
//
// # Float Comparison
//
// Amounts are compared exactly. Expected values are parsed from YAML into
// binary64 and must equal the binary64 sums the ledger computes.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/reference.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
package harness
