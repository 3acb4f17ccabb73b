package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rewindkit/rewind/internal/snapshot"
	"github.com/rewindkit/rewind/internal/store"
	"github.com/rewindkit/rewind/internal/things"
)

// Dispatcher delivers one command URL to the external system. It must
// consult the rate limiter itself and classify a rate-rejected call as a
// failed result, never as an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, commandURL string) things.DispatchResult
}

// Result aggregates one rollback execution. Failed counts include
// non-actionable reverts; callers detect total failure from the counts,
// not from the snapshot status.
type Result struct {
	SnapshotID  string          `json:"snapshot_id"`
	DryRun      bool            `json:"dry_run"`
	Plan        *snapshot.Plan  `json:"plan"`
	Attempted   int             `json:"attempted"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Errors      []string        `json:"errors,omitempty"`
	FinalStatus snapshot.Status `json:"final_status"`
}

// Executor runs rollback plans against the write channel.
type Executor struct {
	manager    *Manager
	dispatcher Dispatcher
	authToken  string
	logger     *slog.Logger
}

// NewExecutor creates an executor. The auth token is attached to every
// compensating command URL; pass "" when Things has no token configured.
// A nil logger discards.
func NewExecutor(m *Manager, d Dispatcher, authToken string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{manager: m, dispatcher: d, authToken: authToken, logger: logger}
}

// Execute runs the rollback plan for a snapshot.
//
// Actions run strictly in plan order, one at a time; every action is
// attempted regardless of earlier failures. When dryRun is set, the plan
// and warnings are returned without dispatching anything and without
// touching snapshot status - the snapshot stays active and can be
// dry-run again or executed later.
func (e *Executor) Execute(ctx context.Context, snapshotID string, dryRun bool) (*Result, error) {
	plan, err := e.manager.RollbackPlan(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		snap, err := e.manager.Snapshot(ctx, snapshotID)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, fmt.Errorf("execute rollback: %w", store.ErrSnapshotNotFound)
		}
		return nil, &NoPlanError{SnapshotID: snapshotID, Status: snap.Status}
	}

	result := &Result{
		SnapshotID:  snapshotID,
		DryRun:      dryRun,
		Plan:        plan,
		FinalStatus: snapshot.StatusActive,
	}

	if dryRun {
		return result, nil
	}

	for _, action := range plan.Actions {
		result.Attempted++

		commandURL, reason := e.commandURL(action)
		if reason != "" {
			// Non-actionable compensations count as failures, never as
			// silent skips - the caller must see they did not happen.
			result.Failed++
			result.Errors = append(result.Errors, reason)
			e.logger.Warn("compensation not actionable",
				"kind", action.Kind, "things_id", action.ThingsID, "reason", reason)
			continue
		}

		res := e.dispatcher.Dispatch(ctx, commandURL)
		if res.Succeeded {
			result.Succeeded++
			e.logger.Debug("compensation dispatched",
				"kind", action.Kind, "things_id", action.ThingsID)
			continue
		}
		result.Failed++
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s %s: %s", action.Kind, action.ThingsID, res.Err))
		e.logger.Warn("compensation failed",
			"kind", action.Kind, "things_id", action.ThingsID, "error", res.Err)
	}

	finalStatus := snapshot.StatusRolledBack
	if result.Failed > 0 {
		finalStatus = snapshot.StatusPartialRollback
	}
	if err := e.manager.MarkRolledBack(ctx, snapshotID, finalStatus); err != nil {
		return nil, fmt.Errorf("execute rollback: finalize status: %w", err)
	}
	result.FinalStatus = finalStatus

	e.logger.Info("rollback finished",
		"snapshot", snapshotID,
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"status", finalStatus)

	return result, nil
}

// commandURL maps a compensating action to a things::// command. The
// second return carries the reason when no safe command exists.
func (e *Executor) commandURL(action snapshot.Action) (url string, failReason string) {
	build := things.BuildUpdateURL
	if action.ItemType == snapshot.ItemProject {
		build = things.BuildUpdateProjectURL
	}

	switch action.Kind {
	case snapshot.ActionCancel:
		return build(things.UpdateParams{
			AuthToken: e.authToken,
			ID:        action.ThingsID,
			Canceled:  things.Bool(true),
		}), ""

	case snapshot.ActionRestore:
		return build(things.UpdateParams{
			AuthToken: e.authToken,
			ID:        action.ThingsID,
			Fields:    action.Data,
		}), ""

	case snapshot.ActionRevertStatus:
		switch action.PreviousStatus {
		case snapshot.ItemStatusCompleted:
			return build(things.UpdateParams{
				AuthToken: e.authToken,
				ID:        action.ThingsID,
				Completed: things.Bool(true),
			}), ""
		case snapshot.ItemStatusCanceled:
			return build(things.UpdateParams{
				AuthToken: e.authToken,
				ID:        action.ThingsID,
				Canceled:  things.Bool(true),
			}), ""
		default:
			return "", fmt.Sprintf(
				"revert-status %s: cannot revert to %q, Things does not support re-opening items",
				action.ThingsID, action.PreviousStatus)
		}

	default:
		return "", fmt.Sprintf("unknown action kind %q for %s", action.Kind, action.ThingsID)
	}
}
