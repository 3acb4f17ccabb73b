// Package engine turns operation intents into stored snapshots and stored
// snapshots back into executed rollbacks.
//
// ARCHITECTURE:
//
// Three pieces, all driven sequentially from one CLI invocation:
//
// Manager: builds snapshot records from structured operation data and
// derives rollback plans from stored records. It never diffs external
// state itself - callers supply pre-operation values, the manager only
// persists and later replays what it was given.
//
// Planner (part of Manager): a plan is a pure function of stored state.
// One cancel action per created item, one restore action per modified
// item, one revert-status action per status change unless the new status
// is the irreversible terminal value, which yields a warning instead.
// Insertion order is preserved within each category; categories are not
// reordered against each other.
//
// Executor: walks a plan action by action through the rate-limited
// dispatch path. Every action is attempted regardless of earlier
// failures; the aggregate decides the final snapshot status. Zero
// failures finalizes rolled-back, anything else partial-rollback -
// callers distinguish total failure via the returned counts, not via
// status. Dry-run returns the plan and warnings without dispatching or
// touching status.
//
// Actions are never issued concurrently: the write channel has no
// ordering or idempotency guarantees, and overlapping calls would drain
// the shared rate budget non-deterministically.
package engine
