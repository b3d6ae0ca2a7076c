package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/greenexweb/kapturasync/repository"
)

// PushResult reports how many ledger entries the remote authority
// acknowledged in this run.
type PushResult struct {
	Pushed int `json:"pushed"`
}

// PullResult reports how many catalog entities the remote authority
// returned in this run.
type PullResult struct {
	Locations int `json:"locacions"`
	Persons   int `json:"personals"`
}

// SyncResult is the composite outcome of one reconciliation run.
type SyncResult struct {
	RunID     string     `json:"run_id"`
	Push      PushResult `json:"push"`
	Pull      PullResult `json:"pull"`
	Timestamp string     `json:"timestamp"`
}

// Orchestrator composes the two-phase reconciliation: push the unsynced
// outbox, then pull and upsert the reference catalogs. The phases run
// strictly in that order and a push failure does not skip the pull.
type Orchestrator struct {
	ledger       repository.AttendanceRepositoryInterface
	catalog      repository.CatalogRepositoryInterface
	remote       RemoteAuthority
	connectivity Connectivity
	events       EventPublisher

	syncing atomic.Bool
}

// NewOrchestrator creates a sync orchestrator. events may be nil.
func NewOrchestrator(
	ledger repository.AttendanceRepositoryInterface,
	catalog repository.CatalogRepositoryInterface,
	remote RemoteAuthority,
	connectivity Connectivity,
	events EventPublisher,
) *Orchestrator {
	return &Orchestrator{
		ledger:       ledger,
		catalog:      catalog,
		remote:       remote,
		connectivity: connectivity,
		events:       events,
	}
}

// Run executes one push-then-pull reconciliation. It refuses to start when
// no network path is available (ErrOffline) or when another run is in
// flight (ErrSyncInProgress). The returned SyncResult is populated for
// whichever phases succeeded even when the composite error is non-nil.
func (o *Orchestrator) Run(ctx context.Context) (*SyncResult, error) {
	if !o.connectivity.Online() {
		return nil, ErrOffline
	}
	if !o.syncing.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer o.syncing.Store(false)

	result := &SyncResult{RunID: uuid.NewString()}
	o.publish("sync.started", map[string]interface{}{"run_id": result.RunID})

	pushErr := o.push(ctx, result)
	if pushErr != nil {
		log.Printf("sync %s: push phase failed: %v", result.RunID, pushErr)
	}

	// pull has no prerequisite on push outcome
	pullErr := o.pull(ctx, result)
	if pullErr != nil {
		log.Printf("sync %s: pull phase failed: %v", result.RunID, pullErr)
	}

	result.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if pushErr != nil || pullErr != nil {
		o.publish("sync.failed", map[string]interface{}{"run_id": result.RunID})
		return result, errors.Join(pushErr, pullErr)
	}

	o.publish("sync.completed", map[string]interface{}{
		"run_id":    result.RunID,
		"pushed":    result.Push.Pushed,
		"locacions": result.Pull.Locations,
		"personals": result.Pull.Persons,
	})
	return result, nil
}

// push drains the outbox as a single bulk request. Records flip to synced
// only after the remote authority acknowledges the whole batch; a failure
// leaves every record unsynced so the next run resubmits the same ids.
func (o *Orchestrator) push(ctx context.Context, result *SyncResult) error {
	pending, err := o.ledger.ListUnsynced()
	if err != nil {
		return &PushError{Err: err}
	}
	if len(pending) == 0 {
		return nil
	}

	batch := make([]BulkAttendance, 0, len(pending))
	ids := make([]int64, 0, len(pending))
	for _, att := range pending {
		batch = append(batch, BulkAttendance{
			PersonID:   att.PersonID,
			LocationID: att.LocationID,
			Timestamp:  att.Timestamp,
			LocalID:    att.LocalID,
		})
		ids = append(ids, att.LocalID)
	}

	if err := o.remote.PushAttendances(ctx, batch); err != nil {
		return &PushError{Err: err}
	}

	if err := o.ledger.MarkSynced(ids); err != nil {
		// the remote already has the batch; the records stay unsynced and
		// the next run resubmits them, which the local_id key makes safe
		return &PushError{Err: fmt.Errorf("acknowledged but not marked: %w", err)}
	}

	result.Push.Pushed = len(batch)
	return nil
}

// pull fetches the full catalogs and upserts them by identifier. Entities
// removed server-side are kept locally; a pull never shrinks the mirror.
func (o *Orchestrator) pull(ctx context.Context, result *SyncResult) error {
	data, err := o.remote.FetchSyncData(ctx)
	if err != nil {
		return &PullError{Err: err}
	}

	if err := o.catalog.UpsertLocations(data.Locations); err != nil {
		return &PullError{Err: err}
	}
	if err := o.catalog.UpsertPersons(data.Persons); err != nil {
		return &PullError{Err: err}
	}

	result.Pull.Locations = len(data.Locations)
	result.Pull.Persons = len(data.Persons)
	return nil
}

func (o *Orchestrator) publish(eventType string, extra map[string]interface{}) {
	if o.events != nil {
		o.events.Publish(eventType, extra)
	}
}
