package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/greenexweb/kapturasync/engine"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteEngineError maps the engine's typed failures onto HTTP statuses so
// the UI can render a specific message per taxonomy entry.
func WriteEngineError(w http.ResponseWriter, err error) {
	var pushErr *engine.PushError
	var pullErr *engine.PullError

	switch {
	case errors.Is(err, engine.ErrOffline):
		WriteAPIError(w, http.StatusServiceUnavailable, "offline", err.Error())
	case errors.Is(err, engine.ErrSyncInProgress):
		WriteAPIError(w, http.StatusConflict, "sync_in_progress", err.Error())
	case errors.Is(err, engine.ErrPersonNotFound):
		WriteAPIError(w, http.StatusNotFound, "person_not_found", err.Error())
	case errors.Is(err, engine.ErrLocationNotSelected):
		WriteAPIError(w, http.StatusUnprocessableEntity, "location_not_selected", err.Error())
	case errors.Is(err, engine.ErrDuplicateWithinWindow):
		WriteAPIError(w, http.StatusConflict, "duplicate_within_window", err.Error())
	case errors.Is(err, engine.ErrDuplicateSameDay):
		WriteAPIError(w, http.StatusConflict, "duplicate_same_day", err.Error())
	case errors.As(err, &pushErr):
		WriteAPIError(w, http.StatusBadGateway, "push_failed", err.Error())
	case errors.As(err, &pullErr):
		WriteAPIError(w, http.StatusBadGateway, "pull_failed", err.Error())
	default:
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
