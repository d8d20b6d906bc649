// Package store provides SQLite-backed storage for constrained draws.
//
// A run groups the draws written against one dataset:
//   - Runs: model name, kernel version, data fingerprint, output names
//   - Draws: one row per (run, seq) holding the named constrained values
//     and, when known, the log density of the unconstrained point
//
// # Identity and Ordering
//
// Run IDs come from a RunIDGenerator (UUIDv7 in production, fixed in tests).
// Draw IDs are content-addressed via ir.DrawID, so rewriting the same draw
// is a no-op and writing different values under an existing (run, seq) is a
// ConflictError. All reads are ordered by seq, never by wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
