package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rewindkit/rewind/internal/store"
	"github.com/rewindkit/rewind/internal/things"
)

// createTestManager creates a manager over a fresh temp-dir store.
func createTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewManager(st)
}

// fakeDispatcher records dispatched URLs and fails the ones matched by
// failWith.
type fakeDispatcher struct {
	urls     []string
	failWith func(commandURL string) string // error message, "" = success
}

func (d *fakeDispatcher) Dispatch(_ context.Context, commandURL string) things.DispatchResult {
	d.urls = append(d.urls, commandURL)
	if d.failWith != nil {
		if msg := d.failWith(commandURL); msg != "" {
			return things.DispatchResult{Succeeded: false, Err: msg}
		}
	}
	return things.DispatchResult{Succeeded: true}
}
