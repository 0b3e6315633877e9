package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/gearbox/internal/filestore"
	"github.com/erazemk/gearbox/internal/model"
	"github.com/erazemk/gearbox/internal/store"
)

// GearHandler handles gear item endpoints.
type GearHandler struct {
	DB    *sql.DB
	Files filestore.Storage
}

// List handles GET /api/gear.
func (h *GearHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListGearItems(r.Context(), h.DB, callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Search handles GET /api/gear/search.
func (h *GearHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := store.SearchParams{
		Filters:   make(map[string]string),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	for _, key := range store.SearchFilterKeys() {
		params.Filters[key] = q.Get(key)
	}
	// Unparseable paging values fall back to the defaults. Out-of-range ones
	// saturate, so a huge page is simply past the end.
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))

	result, err := store.SearchGearItems(r.Context(), h.DB, callerID(r), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Stats handles GET /api/gear/stats.
func (h *GearHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetGearStats(r.Context(), h.DB, callerID(r), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Get handles GET /api/gear/{id}.
func (h *GearHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetGearItem(r.Context(), h.DB, callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/gear.
func (h *GearHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req gearRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := &model.GearItem{Status: model.GearStatusActive}
	req.apply(item)
	if err := item.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	specs, err := req.specifications()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	reminders, err := req.reminders()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := store.CreateGearItem(r.Context(), h.DB, callerID(r), item, specs, reminders)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/gear/{id}.
func (h *GearHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req gearRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	specs, err := req.specifications()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	reminders, err := req.reminders()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := store.UpdateGearItem(r.Context(), h.DB, callerID(r), r.PathValue("id"), store.GearUpdate{
		Apply: func(item *model.GearItem) error {
			req.apply(item)
			if err := item.Validate(); err != nil {
				return &store.ValidationError{Message: err.Error()}
			}
			return nil
		},
		Specifications: specs,
		Reminders:      reminders,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/gear/{id}.
func (h *GearHandler) Delete(w http.ResponseWriter, r *http.Request) {
	urls, err := store.DeleteGearItem(r.Context(), h.DB, callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The rows are gone; stored files are removed best effort.
	for _, url := range urls {
		if err := h.Files.Delete(r.Context(), url); err != nil {
			slog.Warn("failed to delete stored image", "url", url, "error", err)
		}
	}

	jsonMessage(w, "Gear item deleted successfully")
}
