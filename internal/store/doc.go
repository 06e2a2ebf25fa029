// Package store provides the SQLite-backed run journal for stanza.
//
// Every arrangement can be journaled before the collection file is
// rewritten. A run records:
//   - Runs: one row per arrangement (phase, attempts, adjacent pairs)
//   - Run Entries: the arranged order, one row per position, with the
//     full record body so the order can be restored without the source
//
// # Ordering
//
//   - Runs are ordered by seq INTEGER (logical clock), never by created_at
//   - Entries are ordered by position
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Record fingerprints are computed by poem.Record.Fingerprint.
package store
