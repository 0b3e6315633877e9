package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/gearbox/internal/model"
	"github.com/erazemk/gearbox/internal/store"
)

// MaintenanceHandler handles maintenance log and reminder endpoints.
type MaintenanceHandler struct {
	DB *sql.DB
}

type maintenanceRecordRequest struct {
	Type            string   `json:"maintenanceType"`
	Date            *date    `json:"maintenanceDate"`
	PerformedBy     string   `json:"performedBy"`
	Cost            *float64 `json:"cost"`
	Description     string   `json:"description"`
	NextServiceDate *date    `json:"nextServiceDate"`
}

// List handles GET /api/gear/{id}/maintenance.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := store.ListMaintenanceRecords(r.Context(), h.DB, callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []model.MaintenanceRecord{}
	}
	jsonResponse(w, http.StatusOK, records)
}

// Create handles POST /api/gear/{id}/maintenance.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Type) == "" || req.Date == nil {
		jsonError(w, http.StatusBadRequest, "maintenanceType and maintenanceDate are required")
		return
	}
	if req.Cost != nil && *req.Cost < 0 {
		jsonError(w, http.StatusBadRequest, "cost must not be negative")
		return
	}

	rec, err := store.AddMaintenanceRecord(r.Context(), h.DB, callerID(r), r.PathValue("id"), &model.MaintenanceRecord{
		Type:            strings.TrimSpace(req.Type),
		Date:            req.Date.Time,
		PerformedBy:     strings.TrimSpace(req.PerformedBy),
		Cost:            req.Cost,
		Description:     strings.TrimSpace(req.Description),
		NextServiceDate: req.NextServiceDate.ptr(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, rec)
}

// Due handles GET /api/maintenance/due.
func (h *MaintenanceHandler) Due(w http.ResponseWriter, r *http.Request) {
	reminders, err := store.ListDueReminders(r.Context(), h.DB, callerID(r), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, reminders)
}
