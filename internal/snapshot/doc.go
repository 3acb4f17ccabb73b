// Package snapshot defines the domain records for the rollback ledger.
//
// A Snapshot is a durable record of one mutating Things command plus enough
// prior-state data to attempt undoing it. Each snapshot fans out to three
// kinds of child records:
//   - CreatedItem: an item the operation created (undo = cancel it)
//   - ModifiedItem: an item the operation edited (undo = restore old fields)
//   - StatusChange: a lifecycle transition (undo = revert, when possible)
//
// The write channel to Things is fire-and-forget: commands return nothing,
// so the ledger is the only record of what was intended and what existed
// before. Snapshot IDs are the external handle users pass to rollback, so
// they must be unique and sort in creation order.
package snapshot
