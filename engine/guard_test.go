package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardAdmitRejectSequence(t *testing.T) {
	ledger, _ := newTestRepos(t)
	guard := NewDuplicateGuard(ledger, 2*time.Hour)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	// first capture of the day is admitted
	require.NoError(t, guard.Check(42, 7, base))
	_, err := ledger.Append(42, 7, base.UTC().Format(time.RFC3339))
	require.NoError(t, err)
	guard.Remember(42, 7, base)

	// 30 minutes later: inside the trailing window
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(30*time.Minute)), ErrDuplicateWithinWindow)

	// 3 hours later: outside the window but same calendar day
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(3*time.Hour)), ErrDuplicateSameDay)

	// next day: admitted again
	assert.NoError(t, guard.Check(42, 7, base.Add(25*time.Hour)))
}

func TestGuardPersistentChecksAuthoritativeAfterRestart(t *testing.T) {
	ledger, _ := newTestRepos(t)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	_, err := ledger.Append(42, 7, base.UTC().Format(time.RFC3339))
	require.NoError(t, err)

	// a fresh guard simulates an app restart: the session cache is empty
	// but the storage-backed checks still reject
	guard := NewDuplicateGuard(ledger, 2*time.Hour)
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(90*time.Minute)), ErrDuplicateWithinWindow)

	guard = NewDuplicateGuard(ledger, 2*time.Hour)
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(5*time.Hour)), ErrDuplicateSameDay)
}

func TestGuardWindowBoundaryInclusive(t *testing.T) {
	ledger, _ := newTestRepos(t)
	guard := NewDuplicateGuard(ledger, 2*time.Hour)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	_, err := ledger.Append(42, 7, base.UTC().Format(time.RFC3339))
	require.NoError(t, err)

	// exactly window distance: candidate - window == existing timestamp
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(2*time.Hour)), ErrDuplicateWithinWindow)
}

func TestGuardScopedToPersonAndLocation(t *testing.T) {
	ledger, _ := newTestRepos(t)
	guard := NewDuplicateGuard(ledger, 2*time.Hour)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	_, err := ledger.Append(42, 7, base.UTC().Format(time.RFC3339))
	require.NoError(t, err)

	// a different person at the same location is fine, as is the same
	// person at a different location
	assert.NoError(t, guard.Check(43, 7, base.Add(10*time.Minute)))
	assert.NoError(t, guard.Check(42, 8, base.Add(10*time.Minute)))
}

func TestGuardSessionCacheFastReject(t *testing.T) {
	ledger, _ := newTestRepos(t)
	guard := NewDuplicateGuard(ledger, 2*time.Hour)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	guard.Remember(42, 7, base)

	// no ledger row exists; the cache alone rejects the repeat scan
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(5*time.Minute)), ErrDuplicateWithinWindow)
	assert.ErrorIs(t, guard.Check(42, 7, base.Add(4*time.Hour)), ErrDuplicateSameDay)
}
