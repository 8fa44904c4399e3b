// Package ir provides the in-memory representation of MPS7 transaction logs.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - A Record is a tagged variant: its Type alone decides whether it carries
//     an amount (Debit, Credit) or not (StartAutopay, EndAutopay)
//   - Records are only built through NewAccountRecord / NewAutopayRecord /
//     NewRecord, which reject codes outside the closed RecordType set
//   - Amounts are IEEE-754 binary64 values kept bit-for-bit as decoded
//   - All JSON tags use snake_case
package ir
