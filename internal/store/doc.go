// Package store provides SQLite-backed persistence for decoded MPS7 logs.
//
// The store keeps exported loads so a log can be summarized again without
// the original file:
//   - Loads: one row per exported log (header fields, counts, load id)
//   - Records: every decoded record in file order
//
// Nothing derived is persisted. Reading a load back yields the same records
// in the same order, and the Record Store is rebuilt from them.
//
// # Encoding
//
//   - user_id is stored as the int64 with the same bits as the uint64 id
//   - amount_bits is the IEEE-754 bit pattern, so NaN payloads and -0 survive
//   - Load ids are UUIDv7 strings (time-sortable)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
