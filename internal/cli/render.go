package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rewindkit/rewind/internal/engine"
	"github.com/rewindkit/rewind/internal/snapshot"
)

const timeDisplay = "2006-01-02 15:04:05"

// renderSnapshotList writes the list view as an aligned table.
func renderSnapshotList(w io.Writer, snaps []snapshot.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTYPE\tCREATED\tDESCRIPTION")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Status, s.OperationType, s.CreatedAt.Format(timeDisplay), s.Description)
	}
	tw.Flush()
}

// renderDetails writes the full snapshot view including child records.
func renderDetails(w io.Writer, d *snapshot.Details) {
	fmt.Fprintf(w, "Snapshot %s\n", d.ID)
	fmt.Fprintf(w, "  Description: %s\n", d.Description)
	fmt.Fprintf(w, "  Type:        %s\n", d.OperationType)
	fmt.Fprintf(w, "  Status:      %s\n", d.Status)
	fmt.Fprintf(w, "  Created:     %s\n", d.CreatedAt.Format(timeDisplay))
	if d.RolledBackAt != nil {
		fmt.Fprintf(w, "  Rolled back: %s\n", d.RolledBackAt.Format(timeDisplay))
	}
	if d.Command != "" {
		fmt.Fprintf(w, "  Command:     %s\n", d.Command)
	}

	if len(d.CreatedItems) > 0 {
		fmt.Fprintf(w, "\nCreated items (%d):\n", len(d.CreatedItems))
		for _, item := range d.CreatedItems {
			line := fmt.Sprintf("  - %s %s %q", item.ItemType, item.ThingsID, item.Title)
			if item.ParentID != "" {
				line += fmt.Sprintf(" (in %s)", item.ParentID)
			}
			fmt.Fprintln(w, line)
		}
	}
	if len(d.ModifiedItems) > 0 {
		fmt.Fprintf(w, "\nModified items (%d):\n", len(d.ModifiedItems))
		for _, item := range d.ModifiedItems {
			fmt.Fprintf(w, "  - %s %s, fields: %s\n",
				item.ItemType, item.ThingsID, strings.Join(item.ModifiedFields, ", "))
		}
	}
	if len(d.StatusChanges) > 0 {
		fmt.Fprintf(w, "\nStatus changes (%d):\n", len(d.StatusChanges))
		for _, change := range d.StatusChanges {
			fmt.Fprintf(w, "  - %s %s: %s -> %s\n",
				change.ItemType, change.ThingsID, change.PreviousStatus, change.NewStatus)
		}
	}
}

// renderPlan writes the compensating actions and warnings for a plan.
// Output is deterministic: action order comes from the plan, restore
// fields are listed sorted.
func renderPlan(w io.Writer, plan *snapshot.Plan) {
	fmt.Fprintf(w, "Rollback plan for %s\n", plan.SnapshotID)

	if len(plan.Actions) == 0 {
		fmt.Fprintln(w, "\nNo compensating actions.")
	} else {
		fmt.Fprintf(w, "\nActions (%d):\n", len(plan.Actions))
		for i, action := range plan.Actions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, describeAction(action))
		}
	}

	for _, warning := range plan.Warnings {
		fmt.Fprintf(w, "\nWarning: %s\n", warning)
	}
}

func describeAction(a snapshot.Action) string {
	switch a.Kind {
	case snapshot.ActionCancel:
		return fmt.Sprintf("cancel %s %s %q", a.ItemType, a.ThingsID, a.Title)
	case snapshot.ActionRestore:
		keys := make([]string, 0, len(a.Data))
		for k := range a.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("restore %s %s, fields: %s", a.ItemType, a.ThingsID, strings.Join(keys, ", "))
	case snapshot.ActionRevertStatus:
		return fmt.Sprintf("revert %s %s to %s", a.ItemType, a.ThingsID, a.PreviousStatus)
	default:
		return fmt.Sprintf("%s %s %s", a.Kind, a.ItemType, a.ThingsID)
	}
}

// renderResult writes the outcome of an executed rollback. Partial
// failures list every underlying error; blanket success is never
// reported when anything failed.
func renderResult(w io.Writer, result *engine.Result) {
	if result.DryRun {
		renderPlan(w, result.Plan)
		fmt.Fprintln(w, "\nDry run: no commands were dispatched, snapshot remains active.")
		return
	}

	fmt.Fprintf(w, "Rollback of %s: %d succeeded, %d failed (of %d attempted)\n",
		result.SnapshotID, result.Succeeded, result.Failed, result.Attempted)
	for _, msg := range result.Errors {
		fmt.Fprintf(w, "  error: %s\n", msg)
	}
	for _, warning := range result.Plan.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	fmt.Fprintf(w, "Final status: %s\n", result.FinalStatus)
}
