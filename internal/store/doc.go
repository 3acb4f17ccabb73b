// Package store provides SQLite-backed durable storage for the rollback
// ledger.
//
// Layout: one parent table (snapshots) plus three child tables
// (snapshot_created_items, snapshot_modified_items,
// snapshot_status_changes), each keyed by snapshot_id with cascade delete.
//
// The store is deliberately dumb about payloads: previous_state blobs are
// stored and returned verbatim; only the engine interprets their shape.
// Status transitions are the one invariant enforced here - a snapshot
// leaves 'active' exactly once, and terminal statuses are never rewritten.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Single CLI process, single local database file: the connection pool is
// capped at one writer to avoid SQLITE_BUSY.
package store
