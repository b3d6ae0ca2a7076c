package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenexweb/kapturasync/engine"
	"github.com/greenexweb/kapturasync/models"
	"github.com/greenexweb/kapturasync/repository"
)

func newTestHandler(t *testing.T) *AttendanceHandler {
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

	ledger := repository.NewAttendanceRepository(db, sqlDB)
	catalog := repository.NewCatalogRepository(db)
	require.NoError(t, catalog.UpsertLocations([]models.Location{{ID: 7, Name: "Packing"}}))
	require.NoError(t, catalog.UpsertPersons([]models.Person{
		{ID: 42, Name: "Maria Soto", Code: "MS", Rut: "12345678k"},
	}))

	guard := engine.NewDuplicateGuard(ledger, 2*time.Hour)
	capture := engine.NewCaptureService(ledger, catalog, guard, nil)
	return &AttendanceHandler{Ledger: ledger, Capture: capture}
}

func TestSubmitCaptureAndPendingCount(t *testing.T) {
	ah := newTestHandler(t)

	body := strings.NewReader(`{"scanned": "12.345.678-K", "location_id": 7}`)
	req := httptest.NewRequest(http.MethodPost, "/api/captures", body)
	rec := httptest.NewRecorder()
	ah.SubmitCapture(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Record       models.Attendance `json:"record"`
		Confirmation string            `json:"confirmation"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.Record.PersonID)
	assert.Contains(t, resp.Confirmation, "Maria Soto")

	req = httptest.NewRequest(http.MethodGet, "/api/attendances/pending/count", nil)
	rec = httptest.NewRecorder()
	ah.PendingCount(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 1}`, rec.Body.String())
}

func TestSubmitCaptureErrorMapping(t *testing.T) {
	ah := newTestHandler(t)

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"unknown person", `{"scanned": "99.999.999-9", "location_id": 7}`, http.StatusNotFound, "person_not_found"},
		{"no location", `{"scanned": "12345678k"}`, http.StatusUnprocessableEntity, "location_not_selected"},
		{"missing scan", `{"location_id": 7}`, http.StatusBadRequest, "bad_request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/captures", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			ah.SubmitCapture(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			var resp APIErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tc.wantCode, resp.Errors[0].Code)
		})
	}
}

func TestDuplicateCaptureMapsToConflict(t *testing.T) {
	ah := newTestHandler(t)

	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/captures",
			strings.NewReader(`{"scanned": "12345678k", "location_id": 7}`))
		rec := httptest.NewRecorder()
		ah.SubmitCapture(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, submit().Code)
	assert.Equal(t, http.StatusConflict, submit().Code)
}
