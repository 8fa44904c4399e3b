// Package ledger builds the Record Store from an MPS7 buffer and answers
// aggregate queries over it.
//
// The Store is a two-level index: record type, then user id, then the user's
// records in file order. Decode is the only writer; once it returns, the
// Store is read-only and safe to share between goroutines.
//
// # Decode Modes
//
//   - Strict (default): the first malformed record aborts the whole decode
//     and no Store is returned
//   - Lenient: malformed records are skipped and reported in Load.Skipped
//   - EnforceDeclaredCount: the header record count must equal the number of
//     decoded records, otherwise DECLARED_COUNT_MISMATCH
//
// # Counting
//
// CountByType returns the number of distinct users with at least one record
// of the type, not the number of records. The reference summary labels this
// "autopays started/ended", but a user who started autopay three times still
// counts once.
package ledger
