package repository

import (
	"github.com/greenexweb/kapturasync/models"
)

// AttendanceRepositoryInterface defines the methods for the attendance ledger.
// The ledger is append-mostly: rows are created unsynced, flipped to synced
// exactly once after the remote authority acknowledges a push, and otherwise
// never mutated.
type AttendanceRepositoryInterface interface {
	Append(personID, locationID int64, timestamp string) (int64, error)
	ListUnsynced() ([]models.Attendance, error)
	ListUnsyncedWithNames() ([]models.PendingAttendance, error)
	MarkSynced(localIDs []int64) error
	CountUnsynced() (int, error)
	CountBetween(personID, locationID int64, start, end string) (int, error)
	Purge() error
}

// CatalogRepositoryInterface defines the methods for the locally mirrored
// Location and Person reference catalogs. Catalogs are replaced by upsert on
// each pull and are never authored locally.
type CatalogRepositoryInterface interface {
	UpsertLocations(items []models.Location) error
	UpsertPersons(items []models.Person) error
	ListLocations() ([]models.Location, error)
	ListPersons() ([]models.Person, error)
	GetLocationByID(id int64) (*models.Location, error)
	CountLocations() (int64, error)
	CountPersons() (int64, error)
}
