package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rewindkit/rewind/internal/snapshot"
	"github.com/rewindkit/rewind/internal/store"
)

// Manager builds snapshot records from operation data and derives
// rollback plans from stored records.
type Manager struct {
	store *store.Store
}

// NewManager creates a manager over the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// AddData describes a single-item create operation.
type AddData struct {
	Title    string
	ItemType snapshot.ItemType
	// ThingsID may be a pending placeholder: the write channel does not
	// return the new item's identifier synchronously.
	ThingsID string
	ParentID string
	Command  string
}

// UpdateData describes a single-item in-place edit. The caller supplies
// the pre-operation field values and the names of the fields it changed;
// the manager persists them verbatim.
type UpdateData struct {
	ThingsID       string
	ItemType       snapshot.ItemType
	PreviousState  map[string]any
	ModifiedFields []string
	Command        string
}

// StatusChangeData describes a lifecycle transition.
type StatusChangeData struct {
	ThingsID       string
	ItemType       snapshot.ItemType
	Title          string
	PreviousStatus string
	NewStatus      string
	Command        string
}

// BulkData describes a composite operation fanning out to any mix of
// creates, edits, and status changes. Command fields on the child data
// are ignored; the bulk command string covers the whole batch.
type BulkData struct {
	Command       string
	Created       []AddData
	Modified      []UpdateData
	StatusChanges []StatusChangeData
}

// CreateAddSnapshot records a to-do creation: one parent plus exactly one
// created-item row.
func (m *Manager) CreateAddSnapshot(ctx context.Context, d AddData) (*snapshot.Snapshot, error) {
	if d.ItemType == "" {
		d.ItemType = snapshot.ItemToDo
	}
	return m.createAdd(ctx, d, snapshot.OpAdd)
}

// CreateAddProjectSnapshot records a project creation.
func (m *Manager) CreateAddProjectSnapshot(ctx context.Context, d AddData) (*snapshot.Snapshot, error) {
	if d.ItemType == "" {
		d.ItemType = snapshot.ItemProject
	}
	return m.createAdd(ctx, d, snapshot.OpAddProject)
}

func (m *Manager) createAdd(ctx context.Context, d AddData, op snapshot.OperationType) (*snapshot.Snapshot, error) {
	title := snapshot.NormalizeTitle(d.Title)
	return m.store.CreateSnapshotWithChildren(ctx, store.CreateSnapshotInput{
		Description:   fmt.Sprintf("Added %s %q", d.ItemType, title),
		OperationType: op,
		Command:       d.Command,
	}, "",
		[]store.CreatedItemInput{{
			ThingsID: d.ThingsID,
			ItemType: d.ItemType,
			Title:    title,
			ParentID: d.ParentID,
		}},
		nil, nil,
	)
}

// CreateUpdateSnapshot records an in-place edit: one parent plus exactly
// one modified-item row holding the pre-operation values.
func (m *Manager) CreateUpdateSnapshot(ctx context.Context, d UpdateData) (*snapshot.Snapshot, error) {
	if d.ItemType == "" {
		d.ItemType = snapshot.ItemToDo
	}
	op := snapshot.OpUpdate
	if d.ItemType == snapshot.ItemProject {
		op = snapshot.OpUpdateProject
	}

	state, err := json.Marshal(d.PreviousState)
	if err != nil {
		return nil, fmt.Errorf("create update snapshot: marshal previous state: %w", err)
	}

	return m.store.CreateSnapshotWithChildren(ctx, store.CreateSnapshotInput{
		Description:   fmt.Sprintf("Updated %s %s (%s)", d.ItemType, d.ThingsID, strings.Join(d.ModifiedFields, ", ")),
		OperationType: op,
		Command:       d.Command,
	}, "",
		nil,
		[]store.ModifiedItemInput{{
			ThingsID:       d.ThingsID,
			ItemType:       d.ItemType,
			PreviousState:  state,
			ModifiedFields: d.ModifiedFields,
		}},
		nil,
	)
}

// CreateStatusChangeSnapshot records a lifecycle transition. The
// operation type follows the new status: completed yields a complete
// snapshot, anything else a cancel snapshot.
func (m *Manager) CreateStatusChangeSnapshot(ctx context.Context, d StatusChangeData) (*snapshot.Snapshot, error) {
	if d.ItemType == "" {
		d.ItemType = snapshot.ItemToDo
	}

	op := snapshot.OpCancel
	verb := "Canceled"
	if d.NewStatus == snapshot.ItemStatusCompleted {
		op = snapshot.OpComplete
		verb = "Completed"
	}

	subject := d.ThingsID
	if d.Title != "" {
		subject = fmt.Sprintf("%q", snapshot.NormalizeTitle(d.Title))
	}

	return m.store.CreateSnapshotWithChildren(ctx, store.CreateSnapshotInput{
		Description:   fmt.Sprintf("%s %s %s", verb, d.ItemType, subject),
		OperationType: op,
		Command:       d.Command,
	}, "",
		nil, nil,
		[]store.StatusChangeInput{{
			ThingsID:       d.ThingsID,
			ItemType:       d.ItemType,
			PreviousStatus: d.PreviousStatus,
			NewStatus:      d.NewStatus,
		}},
	)
}

// CreateBulkSnapshot records a composite operation under one parent with
// operation type json. The description reports the total item count
// across all three categories.
func (m *Manager) CreateBulkSnapshot(ctx context.Context, d BulkData) (*snapshot.Snapshot, error) {
	created := make([]store.CreatedItemInput, 0, len(d.Created))
	for _, c := range d.Created {
		itemType := c.ItemType
		if itemType == "" {
			itemType = snapshot.ItemToDo
		}
		created = append(created, store.CreatedItemInput{
			ThingsID: c.ThingsID,
			ItemType: itemType,
			Title:    snapshot.NormalizeTitle(c.Title),
			ParentID: c.ParentID,
		})
	}

	modified := make([]store.ModifiedItemInput, 0, len(d.Modified))
	for _, u := range d.Modified {
		itemType := u.ItemType
		if itemType == "" {
			itemType = snapshot.ItemToDo
		}
		state, err := json.Marshal(u.PreviousState)
		if err != nil {
			return nil, fmt.Errorf("create bulk snapshot: marshal previous state: %w", err)
		}
		modified = append(modified, store.ModifiedItemInput{
			ThingsID:       u.ThingsID,
			ItemType:       itemType,
			PreviousState:  state,
			ModifiedFields: u.ModifiedFields,
		})
	}

	statusChanges := make([]store.StatusChangeInput, 0, len(d.StatusChanges))
	for _, sc := range d.StatusChanges {
		itemType := sc.ItemType
		if itemType == "" {
			itemType = snapshot.ItemToDo
		}
		statusChanges = append(statusChanges, store.StatusChangeInput{
			ThingsID:       sc.ThingsID,
			ItemType:       itemType,
			PreviousStatus: sc.PreviousStatus,
			NewStatus:      sc.NewStatus,
		})
	}

	total := len(created) + len(modified) + len(statusChanges)
	return m.store.CreateSnapshotWithChildren(ctx, store.CreateSnapshotInput{
		Description:   fmt.Sprintf("Bulk operation affecting %d items", total),
		OperationType: snapshot.OpJSON,
		Command:       d.Command,
	}, "", created, modified, statusChanges)
}

// Snapshot returns the parent record, or nil if it does not exist.
func (m *Manager) Snapshot(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	return m.store.GetSnapshot(ctx, id)
}

// Details returns the parent plus child records, or nil if absent.
func (m *Manager) Details(ctx context.Context, id string) (*snapshot.Details, error) {
	return m.store.GetSnapshotDetails(ctx, id)
}

// List returns snapshots most recent first.
func (m *Manager) List(ctx context.Context, opts store.ListOptions) ([]snapshot.Snapshot, error) {
	return m.store.ListSnapshots(ctx, opts)
}

// Delete removes a snapshot and its children.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	return m.store.DeleteSnapshot(ctx, id)
}

// Purge removes all snapshots older than the given age in days.
func (m *Manager) Purge(ctx context.Context, days int) (int64, error) {
	return m.store.PurgeOlderThan(ctx, days)
}

// MarkRolledBack finalizes a snapshot with one of the two rollback
// outcomes. Thin pass-through to the store's status update; any other
// status is rejected here.
func (m *Manager) MarkRolledBack(ctx context.Context, id string, status snapshot.Status) error {
	if !status.RollbackOutcome() {
		return fmt.Errorf("mark rolled back: %q is not a rollback outcome", status)
	}
	return m.store.UpdateStatus(ctx, id, status)
}
