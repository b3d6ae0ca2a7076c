package models

// Person represents a server-owned person record mirrored on the device.
// It corresponds to the 'personals' table. Rut is the normalized national
// identifier used as the natural key for QR matching.
type Person struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre" json:"nombre"`
	Code string `gorm:"column:codigo" json:"codigo"`
	Rut  string `gorm:"column:rut" json:"rut"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "personals"
}
