package snapshot

// ActionKind classifies a compensating action in a rollback plan.
type ActionKind string

const (
	// ActionCancel compensates a creation by canceling the created item.
	ActionCancel ActionKind = "cancel"
	// ActionRestore compensates an in-place edit by writing the stored
	// previous field values back.
	ActionRestore ActionKind = "restore"
	// ActionRevertStatus compensates a lifecycle transition by attempting
	// to restore the previous status.
	ActionRevertStatus ActionKind = "revert-status"
)

// Action is one compensating step in a rollback plan.
type Action struct {
	Kind     ActionKind `json:"kind"`
	ThingsID string     `json:"things_id"`
	ItemType ItemType   `json:"item_type"`

	// Title is set for cancel actions (display only).
	Title string `json:"title,omitempty"`

	// Data carries the previous field values for restore actions.
	Data map[string]any `json:"data,omitempty"`

	// PreviousStatus is set for revert-status actions.
	PreviousStatus string `json:"previous_status,omitempty"`
}

// Plan is the ordered set of compensating actions derived from a snapshot,
// plus warnings for effects that cannot be compensated.
//
// A plan is a pure function of stored state: computing it twice for the
// same untouched snapshot yields identical plans.
type Plan struct {
	SnapshotID string   `json:"snapshot_id"`
	Actions    []Action `json:"actions"`
	Warnings   []string `json:"warnings,omitempty"`
}
