package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/greenexweb/kapturasync/engine"
	"github.com/greenexweb/kapturasync/models"
	"github.com/greenexweb/kapturasync/repository"
)

type AttendanceHandler struct {
	Ledger  repository.AttendanceRepositoryInterface
	Capture *engine.CaptureService
}

// ListPending returns the unsynced ledger entries joined with display
// names, most recent first.
func (ah *AttendanceHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := ah.Ledger.ListUnsyncedWithNames()
	if err != nil {
		log.Printf("Error listing pending attendances: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve pending attendances")
		return
	}
	if pending == nil {
		pending = []models.PendingAttendance{}
	}
	writeJSON(w, http.StatusOK, pending)
}

// PendingCount returns the live outbox size for UI polling.
func (ah *AttendanceHandler) PendingCount(w http.ResponseWriter, r *http.Request) {
	count, err := ah.Ledger.CountUnsynced()
	if err != nil {
		log.Printf("Error counting pending attendances: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to count pending attendances")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// SubmitCapture admits one scanned capture at the selected location.
func (ah *AttendanceHandler) SubmitCapture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scanned    string `json:"scanned"`
		LocationID int64  `json:"location_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Scanned) == "" {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Missing required field: scanned")
		return
	}

	record, confirmation, err := ah.Capture.Submit(req.Scanned, req.LocationID, time.Now())
	if err != nil {
		WriteEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"record":       record,
		"confirmation": confirmation,
	})
}

// Purge wipes the attendance ledger. Administrative use only.
func (ah *AttendanceHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := ah.Ledger.Purge(); err != nil {
		log.Printf("Error purging attendances: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to purge attendances")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Attendances purged"})
}
