package repository

import (
	"database/sql"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/greenexweb/kapturasync/database"
	"github.com/greenexweb/kapturasync/models"
)

// AttendanceRepository handles database operations for the attendance ledger.
// All mutations go through a single mutex so a concurrent capture and sync
// can never interleave a read of the unsynced set with a write that would
// lose or double-count a record.
type AttendanceRepository struct {
	DB    *gorm.DB
	sqlDB *sql.DB
	mu    sync.Mutex
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
// sqlDB is gorm's underlying connection, shared with the raw-SQL read paths.
func NewAttendanceRepository(db *gorm.DB, sqlDB *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db, sqlDB: sqlDB}
}

// Append inserts one unsynced ledger entry and returns its local id. No
// uniqueness check happens here; the duplicate guard runs before admission.
func (r *AttendanceRepository) Append(personID, locationID int64, timestamp string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	att := models.Attendance{
		PersonID:   personID,
		LocationID: locationID,
		Timestamp:  timestamp,
		IsSynced:   false,
	}
	if err := r.DB.Create(&att).Error; err != nil {
		return 0, fmt.Errorf("failed to append attendance for person %d at location %d: %w", personID, locationID, err)
	}
	return att.LocalID, nil
}

// ListUnsynced retrieves the push candidate set, most recent first.
func (r *AttendanceRepository) ListUnsynced() ([]models.Attendance, error) {
	var pending []models.Attendance
	err := r.DB.Where("is_synced = ?", false).Order("timestamp DESC").Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced attendances: %w", err)
	}
	return pending, nil
}

// ListUnsyncedWithNames retrieves pending entries joined with person and
// location display names. References may dangle when a catalog entry was
// removed server-side after the capture; sentinels are substituted so the
// row stays renderable.
func (r *AttendanceRepository) ListUnsyncedWithNames() ([]models.PendingAttendance, error) {
	var pending []models.PendingAttendance
	err := r.DB.Table("attendances").
		Select("attendances.*, COALESCE(personals.nombre, 'Unknown') AS person_name, COALESCE(locacions.nombre, 'No location') AS location_name").
		Joins("LEFT JOIN personals ON personals.id = attendances.personal_id").
		Joins("LEFT JOIN locacions ON locacions.id = attendances.location_id").
		Where("attendances.is_synced = ?", false).
		Order("attendances.timestamp DESC").
		Scan(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attendances with names: %w", err)
	}
	return pending, nil
}

// MarkSynced flips the synced flag for the given local ids. Idempotent:
// ids already synced or unknown are no-ops, never errors. Called with the
// exact id set the remote authority just acknowledged.
func (r *AttendanceRepository) MarkSynced(localIDs []int64) error {
	if len(localIDs) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.DB.Model(&models.Attendance{}).
		Where("local_id IN ?", localIDs).
		Update("is_synced", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark %d attendances synced: %w", len(localIDs), err)
	}
	return nil
}

// CountUnsynced returns the live outbox size for UI polling.
func (r *AttendanceRepository) CountUnsynced() (int, error) {
	return database.CountUnsyncedAttendances(r.sqlDB)
}

// CountBetween counts entries for a person at a location inside the
// [start, end] RFC3339 interval. Used by the duplicate guard.
func (r *AttendanceRepository) CountBetween(personID, locationID int64, start, end string) (int, error) {
	return database.CountAttendancesBetween(r.sqlDB, personID, locationID, start, end)
}

// Purge deletes every ledger entry, synced or not. Administrative wipe
// only; reconciliation never deletes.
func (r *AttendanceRepository) Purge() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.DB.Where("1 = 1").Delete(&models.Attendance{}).Error; err != nil {
		return fmt.Errorf("failed to purge attendances: %w", err)
	}
	return nil
}
