package models

// Location represents a server-owned location mirrored on the device.
// It corresponds to the 'locacions' table. The parent reference is
// self-referential and forms a tree; the server is the sole writer of
// structure, so no cycle check is performed locally.
type Location struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"column:nombre" json:"nombre"`
	ParentID *int64 `gorm:"column:locacion_padre_id" json:"locacion_padre_id,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Location) TableName() string {
	return "locacions"
}
