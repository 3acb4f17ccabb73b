package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rewindkit/rewind/internal/snapshot"
)

// CreateSnapshotInput holds the caller-supplied fields for a new parent
// record. Status and created_at come from column defaults and are reflected
// in the returned record via post-insert read-back.
type CreateSnapshotInput struct {
	Description   string
	OperationType snapshot.OperationType
	Command       string
}

// CreatedItemInput describes one item the operation created.
type CreatedItemInput struct {
	ThingsID string
	ItemType snapshot.ItemType
	Title    string
	ParentID string
}

// ModifiedItemInput describes one item the operation altered in place.
// PreviousState is opaque to the store.
type ModifiedItemInput struct {
	ThingsID       string
	ItemType       snapshot.ItemType
	PreviousState  json.RawMessage
	ModifiedFields []string
}

// StatusChangeInput describes one item whose lifecycle status changed.
type StatusChangeInput struct {
	ThingsID       string
	ItemType       snapshot.ItemType
	PreviousStatus string
	NewStatus      string
}

// CreateSnapshot inserts a parent row and returns the fully-populated
// record as stored, including defaulted columns. An explicit ID may be
// supplied for deterministic testing; pass "" to generate one.
func (s *Store) CreateSnapshot(ctx context.Context, in CreateSnapshotInput, explicitID string) (*snapshot.Snapshot, error) {
	id := explicitID
	if id == "" {
		id = snapshot.NewID(s.now())
	}

	if !in.OperationType.Valid() {
		return nil, fmt.Errorf("create snapshot: invalid operation type %q", in.OperationType)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, description, operation_type, command)
		VALUES (?, ?, ?, ?)
	`, id, in.Description, string(in.OperationType), in.Command)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	// Read back so defaults (status, created_at) are reported accurately.
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: read back: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("create snapshot: read back: %w", ErrSnapshotNotFound)
	}
	return snap, nil
}

// CreateSnapshotWithChildren inserts the parent row and all child rows in
// one transaction. If any insert fails, nothing is persisted - a snapshot
// is never observed half-populated.
func (s *Store) CreateSnapshotWithChildren(
	ctx context.Context,
	in CreateSnapshotInput,
	explicitID string,
	created []CreatedItemInput,
	modified []ModifiedItemInput,
	statusChanges []StatusChangeInput,
) (*snapshot.Snapshot, error) {
	id := explicitID
	if id == "" {
		id = snapshot.NewID(s.now())
	}

	if !in.OperationType.Valid() {
		return nil, fmt.Errorf("create snapshot: invalid operation type %q", in.OperationType)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, description, operation_type, command)
		VALUES (?, ?, ?, ?)
	`, id, in.Description, string(in.OperationType), in.Command)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	for _, item := range created {
		if err := insertCreatedItem(ctx, tx, id, item); err != nil {
			return nil, err
		}
	}
	for _, item := range modified {
		if err := insertModifiedItem(ctx, tx, id, item); err != nil {
			return nil, err
		}
	}
	for _, change := range statusChanges {
		if err := insertStatusChange(ctx, tx, id, change); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create snapshot: commit: %w", err)
	}

	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: read back: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("create snapshot: read back: %w", ErrSnapshotNotFound)
	}
	return snap, nil
}

// execer abstracts sql.DB vs sql.Tx for the child-row inserts.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AddCreatedItem appends a created-item row to an existing snapshot.
// A nonexistent parent fails the foreign-key constraint - that error
// propagates, since it indicates a caller bug rather than a runtime
// condition to recover from.
func (s *Store) AddCreatedItem(ctx context.Context, snapshotID string, item CreatedItemInput) error {
	return insertCreatedItem(ctx, s.db, snapshotID, item)
}

// AddModifiedItem appends a modified-item row to an existing snapshot.
func (s *Store) AddModifiedItem(ctx context.Context, snapshotID string, item ModifiedItemInput) error {
	return insertModifiedItem(ctx, s.db, snapshotID, item)
}

// AddStatusChange appends a status-change row to an existing snapshot.
func (s *Store) AddStatusChange(ctx context.Context, snapshotID string, change StatusChangeInput) error {
	return insertStatusChange(ctx, s.db, snapshotID, change)
}

func insertCreatedItem(ctx context.Context, db execer, snapshotID string, item CreatedItemInput) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO snapshot_created_items (snapshot_id, things_id, item_type, title, parent_id)
		VALUES (?, ?, ?, ?, ?)
	`, snapshotID, item.ThingsID, string(item.ItemType), snapshot.NormalizeTitle(item.Title), item.ParentID)
	if err != nil {
		return fmt.Errorf("add created item: %w", err)
	}
	return nil
}

func insertModifiedItem(ctx context.Context, db execer, snapshotID string, item ModifiedItemInput) error {
	state := item.PreviousState
	if len(state) == 0 {
		state = json.RawMessage("{}")
	}
	fields, err := json.Marshal(item.ModifiedFields)
	if err != nil {
		return fmt.Errorf("add modified item: marshal fields: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshot_modified_items (snapshot_id, things_id, item_type, previous_state, modified_fields)
		VALUES (?, ?, ?, ?, ?)
	`, snapshotID, item.ThingsID, string(item.ItemType), string(state), string(fields))
	if err != nil {
		return fmt.Errorf("add modified item: %w", err)
	}
	return nil
}

func insertStatusChange(ctx context.Context, db execer, snapshotID string, change StatusChangeInput) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO snapshot_status_changes (snapshot_id, things_id, item_type, previous_status, new_status)
		VALUES (?, ?, ?, ?, ?)
	`, snapshotID, change.ThingsID, string(change.ItemType), change.PreviousStatus, change.NewStatus)
	if err != nil {
		return fmt.Errorf("add status change: %w", err)
	}
	return nil
}

// UpdateStatus transitions a snapshot out of 'active'. The rollback
// outcome statuses stamp rolled_back_at; any other status leaves it null.
//
// Returns ErrSnapshotNotFound if no such snapshot exists, or a
// TerminalStatusError if the snapshot has already left 'active' - rollback
// is at-most-once.
func (s *Store) UpdateStatus(ctx context.Context, id string, status snapshot.Status) error {
	if !status.Valid() || status == snapshot.StatusActive {
		return fmt.Errorf("update status: invalid target status %q", status)
	}

	var rolledBackAt any // nil unless this is a rollback outcome
	if status.RollbackOutcome() {
		rolledBackAt = formatTime(s.now())
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE snapshots
		SET status = ?, rolled_back_at = ?
		WHERE id = ? AND status = ?
	`, string(status), rolledBackAt, id, string(snapshot.StatusActive))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing updated: distinguish missing from already-terminal.
	existing, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("update status: %w", ErrSnapshotNotFound)
	}
	return &TerminalStatusError{ID: id, Status: existing.Status}
}

// DeleteSnapshot removes a snapshot and, via cascade, all of its child
// rows. Returns whether a row was actually removed, so deleting a missing
// snapshot is safe and detectable.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete snapshot: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete snapshot: rows affected: %w", err)
	}
	return rows > 0, nil
}

// PurgeOlderThan deletes all snapshots created more than the given number
// of days ago, regardless of status, cascading to child rows. Returns the
// number of parent rows removed; zero is a normal outcome.
func (s *Store) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("purge: days must be non-negative, got %d", days)
	}

	cutoff := formatTime(s.now().Add(-time.Duration(days) * 24 * time.Hour))
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge: rows affected: %w", err)
	}
	return rows, nil
}
