package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenexweb/kapturasync/models"
)

func newTestDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a pooled second connection would open a second in-memory database
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Location{}, &models.Person{}, &models.Attendance{}))
	return db, sqlDB
}

func newTestAttendanceRepo(t *testing.T) (*AttendanceRepository, *gorm.DB) {
	t.Helper()
	db, sqlDB := newTestDB(t)
	return NewAttendanceRepository(db, sqlDB), db
}
