package models

// Attendance represents one locally captured attendance event.
// It corresponds to the 'attendances' table. LocalID is assigned by
// SQLite and is the correlation key the remote authority uses to make
// bulk pushes idempotent. Once IsSynced is set the record is immutable
// and never re-selected for push.
type Attendance struct {
	LocalID    int64  `gorm:"column:local_id;primaryKey;autoIncrement" json:"local_id"`
	PersonID   int64  `gorm:"column:personal_id" json:"personal_id"`
	LocationID int64  `gorm:"column:location_id" json:"location_id"`
	Timestamp  string `gorm:"column:timestamp" json:"timestamp"` // ISO-8601, device clock
	IsSynced   bool   `gorm:"column:is_synced;default:false" json:"is_synced"`
}

// TableName explicitly sets the table name for GORM.
func (Attendance) TableName() string {
	return "attendances"
}

// PendingAttendance is an attendance row joined with display names for
// the UI's pending list. Person/location references may dangle when a
// catalog entry was removed server-side; readers substitute sentinels.
type PendingAttendance struct {
	Attendance   `gorm:"embedded"`
	PersonName   string `json:"person_name"`
	LocationName string `json:"location_name"`
}
