package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rewindkit/rewind/internal/snapshot"
)

// DefaultListLimit caps list results when the caller does not specify one.
const DefaultListLimit = 100

// ListOptions controls filtering and pagination for ListSnapshots.
type ListOptions struct {
	// Status restricts results to an exact status match when non-empty.
	Status snapshot.Status
	// Limit caps the page size; zero means DefaultListLimit.
	Limit int
	// Offset skips that many rows from the most recent.
	Offset int
}

// GetSnapshot returns the parent record, or nil (no error) if it does not
// exist. Absence is routine; callers branch on presence.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, operation_type, command, created_at, rolled_back_at, status
		FROM snapshots
		WHERE id = ?
	`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// GetSnapshotDetails returns the parent plus all three child collections,
// or nil if the parent does not exist. Child rows come back in insertion
// order (rowid), which fixes the order of compensating actions.
func (s *Store) GetSnapshotDetails(ctx context.Context, id string) (*snapshot.Details, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	details := &snapshot.Details{
		Snapshot:      *snap,
		CreatedItems:  []snapshot.CreatedItem{},
		ModifiedItems: []snapshot.ModifiedItem{},
		StatusChanges: []snapshot.StatusChange{},
	}

	if err := s.readCreatedItems(ctx, id, details); err != nil {
		return nil, err
	}
	if err := s.readModifiedItems(ctx, id, details); err != nil {
		return nil, err
	}
	if err := s.readStatusChanges(ctx, id, details); err != nil {
		return nil, err
	}

	return details, nil
}

// ListSnapshots returns snapshots ordered most recent first. The id is the
// tiebreaker so listing is stable when timestamps collide.
func (s *Store) ListSnapshots(ctx context.Context, opts ListOptions) ([]snapshot.Snapshot, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, description, operation_type, command, created_at, rolled_back_at, status
		FROM snapshots
	`
	args := []any{}
	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []snapshot.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: iterate: %w", err)
	}

	return snapshots, nil
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*snapshot.Snapshot, error) {
	var (
		snap         snapshot.Snapshot
		opType       string
		status       string
		createdAt    string
		rolledBackAt sql.NullString
	)

	err := row.Scan(&snap.ID, &snap.Description, &opType, &snap.Command, &createdAt, &rolledBackAt, &status)
	if err != nil {
		return nil, err
	}

	snap.OperationType = snapshot.OperationType(opType)
	snap.Status = snapshot.Status(status)

	snap.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	if rolledBackAt.Valid {
		t, err := parseTime(rolledBackAt.String)
		if err != nil {
			return nil, err
		}
		snap.RolledBackAt = &t
	}

	return &snap, nil
}

func (s *Store) readCreatedItems(ctx context.Context, id string, details *snapshot.Details) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, snapshot_id, things_id, item_type, title, parent_id
		FROM snapshot_created_items
		WHERE snapshot_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return fmt.Errorf("read created items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     snapshot.CreatedItem
			itemType string
		)
		if err := rows.Scan(&item.ID, &item.SnapshotID, &item.ThingsID, &itemType, &item.Title, &item.ParentID); err != nil {
			return fmt.Errorf("read created items: %w", err)
		}
		item.ItemType = snapshot.ItemType(itemType)
		details.CreatedItems = append(details.CreatedItems, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read created items: iterate: %w", err)
	}
	return nil
}

func (s *Store) readModifiedItems(ctx context.Context, id string, details *snapshot.Details) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, snapshot_id, things_id, item_type, previous_state, modified_fields
		FROM snapshot_modified_items
		WHERE snapshot_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return fmt.Errorf("read modified items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     snapshot.ModifiedItem
			itemType string
			state    string
			fields   string
		)
		if err := rows.Scan(&item.ID, &item.SnapshotID, &item.ThingsID, &itemType, &state, &fields); err != nil {
			return fmt.Errorf("read modified items: %w", err)
		}
		item.ItemType = snapshot.ItemType(itemType)
		item.PreviousState = json.RawMessage(state)
		if err := json.Unmarshal([]byte(fields), &item.ModifiedFields); err != nil {
			return fmt.Errorf("read modified items: unmarshal fields: %w", err)
		}
		details.ModifiedItems = append(details.ModifiedItems, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read modified items: iterate: %w", err)
	}
	return nil
}

func (s *Store) readStatusChanges(ctx context.Context, id string, details *snapshot.Details) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, snapshot_id, things_id, item_type, previous_status, new_status
		FROM snapshot_status_changes
		WHERE snapshot_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return fmt.Errorf("read status changes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			change   snapshot.StatusChange
			itemType string
		)
		if err := rows.Scan(&change.ID, &change.SnapshotID, &change.ThingsID, &itemType, &change.PreviousStatus, &change.NewStatus); err != nil {
			return fmt.Errorf("read status changes: %w", err)
		}
		change.ItemType = snapshot.ItemType(itemType)
		details.StatusChanges = append(details.StatusChanges, change)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read status changes: iterate: %w", err)
	}
	return nil
}
