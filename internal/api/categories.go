package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/erazemk/gearbox/internal/model"
	"github.com/erazemk/gearbox/internal/store"
)

// CategoriesHandler handles gear category endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB, callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, callerID(r), name,
		strings.TrimSpace(req.Description), strings.TrimSpace(req.Icon))
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, category)
}
