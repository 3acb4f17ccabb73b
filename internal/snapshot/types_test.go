package snapshot

import "testing"

func TestOperationTypeValid(t *testing.T) {
	valid := []OperationType{OpAdd, OpAddProject, OpUpdate, OpUpdateProject, OpComplete, OpCancel, OpJSON}
	for _, op := range valid {
		if !op.Valid() {
			t.Errorf("expected %q to be valid", op)
		}
	}
	for _, op := range []OperationType{"", "delete", "ADD"} {
		if op.Valid() {
			t.Errorf("expected %q to be invalid", op)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusActive, false},
		{StatusRolledBack, true},
		{StatusPartialRollback, true},
		{StatusExpired, true},
		{Status("bogus"), false},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestStatusRollbackOutcome(t *testing.T) {
	if !StatusRolledBack.RollbackOutcome() || !StatusPartialRollback.RollbackOutcome() {
		t.Error("rollback outcomes not recognized")
	}
	if StatusActive.RollbackOutcome() || StatusExpired.RollbackOutcome() {
		t.Error("non-outcome status reported as rollback outcome")
	}
}

func TestDetailsActionCount(t *testing.T) {
	d := &Details{
		CreatedItems:  []CreatedItem{{ThingsID: "a"}, {ThingsID: "b"}},
		ModifiedItems: []ModifiedItem{{ThingsID: "c"}},
		StatusChanges: []StatusChange{{ThingsID: "d"}},
	}
	if got := d.ActionCount(); got != 4 {
		t.Errorf("ActionCount() = %d, want 4", got)
	}

	empty := &Details{}
	if got := empty.ActionCount(); got != 0 {
		t.Errorf("ActionCount() on empty details = %d, want 0", got)
	}
}
