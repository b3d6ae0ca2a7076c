package handlers

import (
	"log"
	"net/http"

	"github.com/greenexweb/kapturasync/models"
	"github.com/greenexweb/kapturasync/repository"
)

type CatalogHandler struct {
	Catalog repository.CatalogRepositoryInterface
}

// ListLocations returns the mirrored location catalog, ordered by name.
func (ch *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := ch.Catalog.ListLocations()
	if err != nil {
		log.Printf("Error listing locations: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve locations")
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

// ListPersons returns the mirrored person catalog, ordered by name.
func (ch *CatalogHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := ch.Catalog.ListPersons()
	if err != nil {
		log.Printf("Error listing persons: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve persons")
		return
	}
	if persons == nil {
		persons = []models.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}
