package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rewindkit/rewind/internal/engine"
	"github.com/rewindkit/rewind/internal/snapshot"
)

func goldenPlan() *snapshot.Plan {
	return &snapshot.Plan{
		SnapshotID: "20250601T120000.000-golden1",
		Actions: []snapshot.Action{
			{
				Kind:     snapshot.ActionCancel,
				ThingsID: "things-123",
				ItemType: snapshot.ItemToDo,
				Title:    "New Task",
			},
			{
				Kind:     snapshot.ActionRestore,
				ThingsID: "things-456",
				ItemType: snapshot.ItemToDo,
				Data:     map[string]any{"title": "Old", "notes": "old notes"},
			},
			{
				Kind:           snapshot.ActionRevertStatus,
				ThingsID:       "things-789",
				ItemType:       snapshot.ItemProject,
				PreviousStatus: snapshot.ItemStatusCompleted,
			},
		},
		Warnings: []string{
			"cannot undo cancellation of to-do things-000: Things does not support restoring canceled items",
		},
	}
}

func TestRenderPlan_Golden(t *testing.T) {
	var buf bytes.Buffer
	renderPlan(&buf, goldenPlan())

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "plan_basic", buf.Bytes())
}

func TestRenderPlan_NoActions(t *testing.T) {
	var buf bytes.Buffer
	renderPlan(&buf, &snapshot.Plan{
		SnapshotID: "20250601T120000.000-golden2",
		Actions:    []snapshot.Action{},
		Warnings: []string{
			"cannot undo cancellation of to-do things-000: Things does not support restoring canceled items",
		},
	})

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "plan_empty", buf.Bytes())
}

func TestRenderResult_PartialFailure_Golden(t *testing.T) {
	plan := goldenPlan()
	result := &engine.Result{
		SnapshotID:  plan.SnapshotID,
		Plan:        plan,
		Attempted:   3,
		Succeeded:   2,
		Failed:      1,
		Errors:      []string{"cancel things-123: exit status 1"},
		FinalStatus: snapshot.StatusPartialRollback,
	}

	var buf bytes.Buffer
	renderResult(&buf, result)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "rollback_partial", buf.Bytes())
}

func TestRenderResult_DryRunShowsPlan(t *testing.T) {
	plan := goldenPlan()
	result := &engine.Result{
		SnapshotID:  plan.SnapshotID,
		DryRun:      true,
		Plan:        plan,
		FinalStatus: snapshot.StatusActive,
	}

	var buf bytes.Buffer
	renderResult(&buf, result)

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("Dry run")) {
		t.Errorf("dry run marker missing from output:\n%s", out)
	}
}
