package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/opsdash/internal/core"
)

func TestMaintenanceGet(t *testing.T) {
	db := &handlerMockDB{}
	db.On("QueryRow", mock.Anything, mock.Anything, []any{"prj_1"}).Return(&handlerMockRow{scanFunc: func(dest ...any) error {
		enabled := true
		msg := "Upgrading database"
		*dest[0].(**bool) = &enabled
		*dest[1].(**string) = &msg
		return nil
	}})
	h := NewMaintenance(core.NewMaintenanceService(db))
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/api/maintenance/prj_1", nil), "projectID", "prj_1")

	h.Get(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled":true,"message":"Upgrading database"}`, rec.Body.String())
}

func TestMaintenanceGet_NoRecord(t *testing.T) {
	db := &handlerMockDB{}
	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(&handlerMockRow{scanFunc: func(...any) error {
		return pgx.ErrNoRows
	}})
	h := NewMaintenance(core.NewMaintenanceService(db))
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/api/maintenance/prj_9", nil), "projectID", "prj_9")

	h.Get(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled":false,"message":""}`, rec.Body.String())
}

func TestMaintenanceList_StoreFailure(t *testing.T) {
	db := &handlerMockDB{}
	db.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	h := NewMaintenance(core.NewMaintenanceService(db))
	rec := httptest.NewRecorder()

	h.List(rec, newRequest(http.MethodGet, "/api/projects/maintenance", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestMaintenanceSet(t *testing.T) {
	db := &handlerMockDB{}
	db.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(pgconn.CommandTag{}, nil)
	h := NewMaintenance(core.NewMaintenanceService(db))
	rec := httptest.NewRecorder()

	h.Set(rec, newRequest(http.MethodPost, "/api/projects/maintenance", map[string]any{
		"projectId":   "prj_1",
		"projectName": "web",
		"enabled":     true,
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"enabled":true}`, rec.Body.String())
	db.AssertNumberOfCalls(t, "Exec", 1)
}

func TestMaintenanceSet_MissingFields(t *testing.T) {
	db := &handlerMockDB{}
	h := NewMaintenance(core.NewMaintenanceService(db))
	rec := httptest.NewRecorder()

	h.Set(rec, newRequest(http.MethodPost, "/api/projects/maintenance", map[string]any{"projectId": "prj_1"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "projectId and projectName required", decodeErrorResponse(rec)["error"])
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaintenanceSet_StoreFailure(t *testing.T) {
	db := &handlerMockDB{}
	db.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(pgconn.CommandTag{}, errors.New("read-only"))
	h := NewMaintenance(core.NewMaintenanceService(db))
	rec := httptest.NewRecorder()

	h.Set(rec, newRequest(http.MethodPost, "/api/projects/maintenance", map[string]any{"projectId": "prj_1", "projectName": "web"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to update", decodeErrorResponse(rec)["error"])
}
