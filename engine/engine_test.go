package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenexweb/kapturasync/models"
	"github.com/greenexweb/kapturasync/repository"
)

func newTestRepos(t *testing.T) (*repository.AttendanceRepository, *repository.CatalogRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Location{}, &models.Person{}, &models.Attendance{}))
	return repository.NewAttendanceRepository(db, sqlDB), repository.NewCatalogRepository(db)
}

// recordingPublisher captures engine events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(eventType string, extra map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func online() Connectivity  { return ConnectivityFunc(func() bool { return true }) }
func offline() Connectivity { return ConnectivityFunc(func() bool { return false }) }
