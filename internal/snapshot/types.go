package snapshot

import (
	"encoding/json"
	"time"
)

// OperationType classifies the mutating operation a snapshot records.
type OperationType string

const (
	OpAdd           OperationType = "add"
	OpAddProject    OperationType = "add-project"
	OpUpdate        OperationType = "update"
	OpUpdateProject OperationType = "update-project"
	OpComplete      OperationType = "complete"
	OpCancel        OperationType = "cancel"
	// OpJSON denotes a bulk/composite operation that may contain any mix
	// of creates, updates, and status changes.
	OpJSON OperationType = "json"
)

// Valid reports whether t is a known operation type.
func (t OperationType) Valid() bool {
	switch t {
	case OpAdd, OpAddProject, OpUpdate, OpUpdateProject, OpComplete, OpCancel, OpJSON:
		return true
	}
	return false
}

// Status is the snapshot lifecycle state.
//
// The only caller-visible transition is StatusActive to one of the rollback
// outcomes; terminal statuses are never left again.
type Status string

const (
	StatusActive          Status = "active"
	StatusRolledBack      Status = "rolled-back"
	StatusPartialRollback Status = "partial-rollback"
	StatusExpired         Status = "expired"
)

// Valid reports whether s is a known snapshot status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusRolledBack, StatusPartialRollback, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status (no further transitions).
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusActive
}

// RollbackOutcome reports whether s is one of the two statuses a rollback
// execution may finalize a snapshot with. Only these stamp rolled_back_at.
func (s Status) RollbackOutcome() bool {
	return s == StatusRolledBack || s == StatusPartialRollback
}

// ItemType tags which kind of Things item a child record refers to.
type ItemType string

const (
	ItemToDo    ItemType = "to-do"
	ItemProject ItemType = "project"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemToDo || t == ItemProject
}

// Item lifecycle statuses as Things reports them.
//
// ItemStatusCanceled is irreversible: Things has no command to restore a
// canceled item, so status changes into it cannot be compensated.
const (
	ItemStatusOpen      = "open"
	ItemStatusCompleted = "completed"
	ItemStatusCanceled  = "canceled"
)

// Snapshot is the parent record for one logical mutating operation.
type Snapshot struct {
	ID            string        `json:"id"`
	Description   string        `json:"description"`
	OperationType OperationType `json:"operation_type"`
	Command       string        `json:"command"` // literal invocation, audit/display only
	CreatedAt     time.Time     `json:"created_at"`
	RolledBackAt  *time.Time    `json:"rolled_back_at,omitempty"`
	Status        Status        `json:"status"`
}

// CreatedItem records one item the operation created.
// Its existence means "compensating action = cancel this item".
type CreatedItem struct {
	ID         int64    `json:"id"` // auto-increment (store FK)
	SnapshotID string   `json:"snapshot_id"`
	ThingsID   string   `json:"things_id"` // may be a PendingIDPrefix placeholder
	ItemType   ItemType `json:"item_type"`
	Title      string   `json:"title"`
	ParentID   string   `json:"parent_id,omitempty"` // containing project/area, if any
}

// ModifiedItem records one item the operation altered in place, together
// with the pre-operation values of the fields that changed. PreviousState
// is opaque to the store; only the engine interprets its shape.
type ModifiedItem struct {
	ID             int64           `json:"id"`
	SnapshotID     string          `json:"snapshot_id"`
	ThingsID       string          `json:"things_id"`
	ItemType       ItemType        `json:"item_type"`
	PreviousState  json.RawMessage `json:"previous_state"`
	ModifiedFields []string        `json:"modified_fields"`
}

// StatusChange records one item whose lifecycle status changed.
type StatusChange struct {
	ID             int64    `json:"id"`
	SnapshotID     string   `json:"snapshot_id"`
	ThingsID       string   `json:"things_id"`
	ItemType       ItemType `json:"item_type"`
	PreviousStatus string   `json:"previous_status"`
	NewStatus      string   `json:"new_status"`
}

// Details is a snapshot plus all of its child records.
type Details struct {
	Snapshot
	CreatedItems  []CreatedItem  `json:"created_items"`
	ModifiedItems []ModifiedItem `json:"modified_items"`
	StatusChanges []StatusChange `json:"status_changes"`
}

// ActionCount returns the total number of compensating actions the
// snapshot's child records imply.
func (d *Details) ActionCount() int {
	return len(d.CreatedItems) + len(d.ModifiedItems) + len(d.StatusChanges)
}
