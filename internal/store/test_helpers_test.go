package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rewindkit/rewind/internal/snapshot"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSnapshot inserts a minimal parent row and returns the record.
func createTestSnapshot(t *testing.T, s *Store, id string) *snapshot.Snapshot {
	t.Helper()
	snap, err := s.CreateSnapshot(context.Background(), CreateSnapshotInput{
		Description:   "Added to-do \"Test Task\"",
		OperationType: snapshot.OpAdd,
		Command:       "things:///add?title=Test%20Task",
	}, id)
	if err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}
	return snap
}

func testCreatedItem(title string) CreatedItemInput {
	return CreatedItemInput{
		ThingsID: "things-123",
		ItemType: snapshot.ItemToDo,
		Title:    title,
	}
}

func testModifiedItem(prev map[string]any, fields []string) ModifiedItemInput {
	raw, _ := json.Marshal(prev)
	return ModifiedItemInput{
		ThingsID:       "things-456",
		ItemType:       snapshot.ItemToDo,
		PreviousState:  raw,
		ModifiedFields: fields,
	}
}

func testStatusChange(prev, next string) StatusChangeInput {
	return StatusChangeInput{
		ThingsID:       "things-789",
		ItemType:       snapshot.ItemToDo,
		PreviousStatus: prev,
		NewStatus:      next,
	}
}

// backdateSnapshot rewrites created_at to a stored-format timestamp.
// Used by purge tests to simulate old snapshots.
func backdateSnapshot(t *testing.T, s *Store, id, createdAt string) {
	t.Helper()
	_, err := s.db.Exec(`UPDATE snapshots SET created_at = ? WHERE id = ?`, createdAt, id)
	if err != nil {
		t.Fatalf("backdate snapshot: %v", err)
	}
}

// countRows returns the number of rows in a child table for a snapshot.
func countRows(t *testing.T, s *Store, table, snapshotID string) int {
	t.Helper()
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE snapshot_id = ?", snapshotID).Scan(&count)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
