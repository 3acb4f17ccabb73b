package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rewindkit/rewind/internal/snapshot"
)

// RollbackPlan derives the compensating actions for a snapshot.
//
// Returns nil (no error) when the snapshot does not exist or is no longer
// active - an already-rolled-back snapshot must not produce a plan.
// Callers that need to tell the two cases apart check existence first.
func (m *Manager) RollbackPlan(ctx context.Context, snapshotID string) (*snapshot.Plan, error) {
	details, err := m.store.GetSnapshotDetails(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if details == nil || details.Status != snapshot.StatusActive {
		return nil, nil
	}

	plan := &snapshot.Plan{
		SnapshotID: snapshotID,
		Actions:    []snapshot.Action{},
	}

	// Compensate creations by canceling the created items.
	for _, item := range details.CreatedItems {
		plan.Actions = append(plan.Actions, snapshot.Action{
			Kind:     snapshot.ActionCancel,
			ThingsID: item.ThingsID,
			ItemType: item.ItemType,
			Title:    item.Title,
		})
	}

	// Compensate edits by writing the stored previous values back.
	for _, item := range details.ModifiedItems {
		var data map[string]any
		if err := json.Unmarshal(item.PreviousState, &data); err != nil {
			return nil, fmt.Errorf("rollback plan: previous state for %s: %w", item.ThingsID, err)
		}
		plan.Actions = append(plan.Actions, snapshot.Action{
			Kind:     snapshot.ActionRestore,
			ThingsID: item.ThingsID,
			ItemType: item.ItemType,
			Data:     data,
		})
	}

	// Compensate status changes where a compensation exists. Cancellation
	// is irreversible in Things, so those become warnings, not actions.
	for _, change := range details.StatusChanges {
		if change.NewStatus == snapshot.ItemStatusCanceled {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"cannot undo cancellation of %s %s: Things does not support restoring canceled items",
				change.ItemType, change.ThingsID))
			continue
		}
		plan.Actions = append(plan.Actions, snapshot.Action{
			Kind:           snapshot.ActionRevertStatus,
			ThingsID:       change.ThingsID,
			ItemType:       change.ItemType,
			PreviousStatus: change.PreviousStatus,
		})
	}

	return plan, nil
}
