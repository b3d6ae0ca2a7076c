package engine

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/greenexweb/kapturasync/models"
	"github.com/greenexweb/kapturasync/repository"
)

// personParam is the query parameter carrying the person identifier in
// QR-encoded URLs.
const personParam = "person_id"

var rutCleaner = regexp.MustCompile(`[^0-9kK]`)

// NormalizeRut reduces a national identifier to its natural-key form:
// digits and the check-digit letter k, lower-cased. "12.345.678-K" and
// "12345678k" normalize to the same key.
func NormalizeRut(rut string) string {
	return strings.ToLower(rutCleaner.ReplaceAllString(rut, ""))
}

// ExtractPersonIdentifier resolves an opaque scanned string to a raw person
// identifier: URL query-parameter extraction first, whole-string fallback
// when the payload is not a URL.
func ExtractPersonIdentifier(scanned string) string {
	u, err := url.Parse(scanned)
	if err != nil || u.Scheme == "" {
		return scanned
	}
	return u.Query().Get(personParam)
}

// EventPublisher receives engine notifications. The engine publishes state
// changes here instead of calling back into any UI framework.
type EventPublisher interface {
	Publish(eventType string, extra map[string]interface{})
}

// CaptureService is the ledger write path: it resolves a scanned string to
// a person, consults the duplicate guard and appends admitted captures.
type CaptureService struct {
	ledger  repository.AttendanceRepositoryInterface
	catalog repository.CatalogRepositoryInterface
	guard   *DuplicateGuard
	events  EventPublisher
}

// NewCaptureService creates a new capture admission service.
func NewCaptureService(
	ledger repository.AttendanceRepositoryInterface,
	catalog repository.CatalogRepositoryInterface,
	guard *DuplicateGuard,
	events EventPublisher,
) *CaptureService {
	return &CaptureService{
		ledger:  ledger,
		catalog: catalog,
		guard:   guard,
		events:  events,
	}
}

// Submit validates one candidate capture and, if admitted, appends it to
// the ledger as unsynced. Returns the created record and a human-readable
// confirmation. Failures are the typed admission errors; none of them
// write to the ledger.
func (s *CaptureService) Submit(scanned string, locationID int64, now time.Time) (*models.Attendance, string, error) {
	person, err := s.resolvePerson(scanned)
	if err != nil {
		return nil, "", err
	}
	if locationID == 0 {
		return nil, "", ErrLocationNotSelected
	}

	if err := s.guard.Check(person.ID, locationID, now); err != nil {
		s.publish("capture.rejected", map[string]interface{}{
			"personal_id": person.ID,
			"location_id": locationID,
			"reason":      err.Error(),
		})
		return nil, "", err
	}

	timestamp := now.UTC().Format(time.RFC3339)
	localID, err := s.ledger.Append(person.ID, locationID, timestamp)
	if err != nil {
		return nil, "", err
	}
	s.guard.Remember(person.ID, locationID, now)

	record := &models.Attendance{
		LocalID:    localID,
		PersonID:   person.ID,
		LocationID: locationID,
		Timestamp:  timestamp,
	}
	label := s.locationLabel(locationID)
	confirmation := fmt.Sprintf("Marcado %s en locacion %s", person.Name, label)

	s.publish("capture.admitted", map[string]interface{}{
		"local_id":    localID,
		"personal_id": person.ID,
		"location_id": locationID,
	})
	return record, confirmation, nil
}

func (s *CaptureService) resolvePerson(scanned string) (*models.Person, error) {
	raw := ExtractPersonIdentifier(scanned)
	key := NormalizeRut(raw)
	if key == "" {
		return nil, ErrPersonNotFound
	}

	persons, err := s.catalog.ListPersons()
	if err != nil {
		return nil, fmt.Errorf("failed to load person catalog: %w", err)
	}
	for i := range persons {
		if NormalizeRut(persons[i].Rut) == key {
			return &persons[i], nil
		}
	}
	return nil, ErrPersonNotFound
}

// locationLabel renders a location's display label, prefixed by its parent
// name when one exists. Dangling references fall back to a sentinel.
func (s *CaptureService) locationLabel(locationID int64) string {
	loc, err := s.catalog.GetLocationByID(locationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error resolving location %d: %v", locationID, err)
		}
		return "No location"
	}
	if loc.ParentID != nil {
		if parent, err := s.catalog.GetLocationByID(*loc.ParentID); err == nil {
			return parent.Name + " - " + loc.Name
		}
	}
	return loc.Name
}

func (s *CaptureService) publish(eventType string, extra map[string]interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, extra)
	}
}
