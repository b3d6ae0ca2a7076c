package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/greenexweb/kapturasync/repository"
)

// DuplicateGuard decides whether a (person, location, instant) capture is
// admissible. Two checks run against the ledger: a trailing time window
// ending at the candidate instant, and calendar-day equality in the device's
// local zone. Either firing rejects, with a distinct reason.
//
// A per-process cache keyed by (person, location, day) short-circuits
// obviously-repeated scans in the same session. It is an optimization only:
// the storage-backed checks remain the correctness authority and are always
// consulted on a cache miss, including after a restart empties the cache.
type DuplicateGuard struct {
	ledger repository.AttendanceRepositoryInterface
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time // last candidate instant per session key
}

// NewDuplicateGuard creates a guard with the given trailing window.
func NewDuplicateGuard(ledger repository.AttendanceRepositoryInterface, window time.Duration) *DuplicateGuard {
	return &DuplicateGuard{
		ledger: ledger,
		window: window,
		seen:   make(map[string]time.Time),
	}
}

func sessionKey(personID, locationID int64, at time.Time) string {
	return fmt.Sprintf("%d:%d:%s", personID, locationID, at.Format("2006-01-02"))
}

// Check returns nil when the candidate may be admitted, or one of
// ErrDuplicateWithinWindow / ErrDuplicateSameDay. Rejections are remembered
// in the session cache; admissions must be recorded by the caller via
// Remember after the ledger append succeeds.
func (g *DuplicateGuard) Check(personID, locationID int64, at time.Time) error {
	key := sessionKey(personID, locationID, at)

	g.mu.Lock()
	last, hit := g.seen[key]
	g.mu.Unlock()

	if hit {
		// same session key means same local calendar day; the cached
		// instant is enough to pick the right reason without a query
		if at.Sub(last) <= g.window {
			return ErrDuplicateWithinWindow
		}
		return ErrDuplicateSameDay
	}

	start := at.Add(-g.window).UTC().Format(time.RFC3339)
	end := at.UTC().Format(time.RFC3339)
	count, err := g.ledger.CountBetween(personID, locationID, start, end)
	if err != nil {
		return fmt.Errorf("duplicate window check failed: %w", err)
	}
	if count > 0 {
		g.Remember(personID, locationID, at)
		return ErrDuplicateWithinWindow
	}

	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)
	count, err = g.ledger.CountBetween(personID, locationID,
		dayStart.UTC().Format(time.RFC3339), dayEnd.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("duplicate same-day check failed: %w", err)
	}
	if count > 0 {
		g.Remember(personID, locationID, at)
		return ErrDuplicateSameDay
	}

	return nil
}

// Remember records an admitted or rejected candidate in the session cache.
func (g *DuplicateGuard) Remember(personID, locationID int64, at time.Time) {
	g.mu.Lock()
	g.seen[sessionKey(personID, locationID, at)] = at
	g.mu.Unlock()
}
