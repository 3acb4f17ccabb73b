package engine

import (
	"errors"
	"fmt"

	"github.com/rewindkit/rewind/internal/snapshot"
)

// NoPlanError is returned when a rollback is requested for a snapshot
// that is no longer active. Distinguished from not-found: the snapshot
// exists, it has just already reached a terminal status.
type NoPlanError struct {
	SnapshotID string
	Status     snapshot.Status
}

// Error implements the error interface.
func (e *NoPlanError) Error() string {
	return fmt.Sprintf("no rollback plan for snapshot %s: status is %q, only active snapshots can be rolled back",
		e.SnapshotID, e.Status)
}

// IsNoPlan returns true if the error is a NoPlanError.
// Uses errors.As to handle wrapped errors.
func IsNoPlan(err error) bool {
	var ne *NoPlanError
	return errors.As(err, &ne)
}
