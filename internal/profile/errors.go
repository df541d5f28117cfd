// Package profile implements the candidate profile store: lazy provisioning,
// parallel loads, and replace-semantics section saves.
package profile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotAuthenticated indicates no identity was supplied. Data operations
// refuse to run without one.
var ErrNotAuthenticated = errors.New("user not authenticated: sign in to continue")

// ErrProfileNotFound indicates the provisioned candidate row is missing.
// Given EnsureCandidate runs before every load this should not occur; treat a
// sighting as a bug, not a user error.
type ErrProfileNotFound struct {
	CandidateID uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("candidate profile not found: %s", e.CandidateID)
}

// RemoteWriteError indicates the backend rejected a write for one profile
// section. The caller's in-memory state is untouched; the error is surfaced
// once and not retried.
type RemoteWriteError struct {
	Section string
	Err     error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Section, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}
