package engine

import (
	"errors"
	"fmt"
)

// Admission and sync failures are typed so callers can render a specific
// message; none of them corrupt local state.
var (
	// ErrOffline means no network path is available; sync is refused
	// before either phase begins.
	ErrOffline = errors.New("no connectivity, sync refused")

	// ErrSyncInProgress means a sync invocation is already in flight.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrPersonNotFound means the scanned identifier matched no person in
	// the local catalog.
	ErrPersonNotFound = errors.New("person not found in local catalog")

	// ErrLocationNotSelected means a capture was submitted without a
	// location.
	ErrLocationNotSelected = errors.New("no location selected")

	// ErrDuplicateWithinWindow means a record for the same person and
	// location exists inside the trailing duplicate window.
	ErrDuplicateWithinWindow = errors.New("duplicate capture within window")

	// ErrDuplicateSameDay means a record for the same person and location
	// exists on the same calendar day.
	ErrDuplicateSameDay = errors.New("duplicate capture for same day")
)

// PushError reports a failed push phase. The whole batch failed; no record
// was marked synced, so a retry resubmits the same local ids.
type PushError struct {
	Err error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push failed: %v", e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }

// PullError reports a failed pull phase. Previously mirrored catalogs stay
// valid (stale) rather than being cleared.
type PullError struct {
	Err error
}

func (e *PullError) Error() string {
	return fmt.Sprintf("pull failed: %v", e.Err)
}

func (e *PullError) Unwrap() error { return e.Err }
