package repository

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenexweb/kapturasync/models"
)

// CatalogRepository handles database operations for the mirrored Location
// and Person reference catalogs.
type CatalogRepository struct {
	DB *gorm.DB
	mu sync.Mutex
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// UpsertLocations inserts or replaces every given location by id. Entities
// absent from the batch are left untouched, so a pull never shrinks the
// local catalog (union semantics for offline continuity).
func (r *CatalogRepository) UpsertLocations(items []models.Location) error {
	if len(items) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&items).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d locations: %w", len(items), err)
	}
	return nil
}

// UpsertPersons inserts or replaces every given person by id, with the same
// union semantics as UpsertLocations.
func (r *CatalogRepository) UpsertPersons(items []models.Person) error {
	if len(items) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&items).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d persons: %w", len(items), err)
	}
	return nil
}

// ListLocations retrieves all locations, ordered by name.
func (r *CatalogRepository) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	if err := r.DB.Order("nombre ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// ListPersons retrieves all persons, ordered by name.
func (r *CatalogRepository) ListPersons() ([]models.Person, error) {
	var persons []models.Person
	if err := r.DB.Order("nombre ASC").Find(&persons).Error; err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

// GetLocationByID retrieves a location by id. Returns gorm.ErrRecordNotFound
// when the reference dangles; callers substitute a sentinel label.
func (r *CatalogRepository) GetLocationByID(id int64) (*models.Location, error) {
	var location models.Location
	err := r.DB.First(&location, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get location by ID %d: %w", id, err)
	}
	return &location, nil
}

// CountLocations returns the local location catalog size.
func (r *CatalogRepository) CountLocations() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Location{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}
	return count, nil
}

// CountPersons returns the local person catalog size.
func (r *CatalogRepository) CountPersons() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Person{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count persons: %w", err)
	}
	return count, nil
}
