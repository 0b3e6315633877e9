package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/gearbox/internal/model"
	"github.com/erazemk/gearbox/internal/store"
)

// SharingHandler handles sharing endpoints.
type SharingHandler struct {
	DB *sql.DB
}

type shareRequest struct {
	SharedWithEmail string  `json:"sharedWithEmail"`
	GearItemID      *string `json:"gearItemId"`
	AccessLevel     string  `json:"accessLevel"`
	ExpirationDate  *date   `json:"expirationDate"`
}

// Share handles POST /api/gear/share.
func (h *SharingHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, err := model.NormalizeEmail(req.SharedWithEmail)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "A valid sharedWithEmail is required")
		return
	}

	// An empty id means the same as no id: share everything.
	gearItemID := req.GearItemID
	if gearItemID != nil && strings.TrimSpace(*gearItemID) == "" {
		gearItemID = nil
	}

	expires := req.ExpirationDate.ptr()
	if expires != nil && !expires.After(time.Now()) {
		jsonError(w, http.StatusBadRequest, "expirationDate must be in the future")
		return
	}

	owner := GetClaims(r.Context())
	share, err := store.CreateShare(r.Context(), h.DB, owner.UserID, store.ShareRequest{
		RecipientEmail: email,
		GearItemID:     gearItemID,
		AccessLevel:    req.AccessLevel,
		ExpirationDate: expires,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("gear shared", "owner", owner.Email, "recipient", email, "access", share.AccessLevel, "all_items", gearItemID == nil)
	jsonResponse(w, http.StatusCreated, share)
}

// SharedWithMe handles GET /api/gear/shared-with-me.
func (h *SharingHandler) SharedWithMe(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListSharedWithMe(r.Context(), h.DB, callerID(r), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// ListShares handles GET /api/gear/shares.
func (h *SharingHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	shares, err := store.ListShares(r.Context(), h.DB, callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, shares)
}

// DeleteShare handles DELETE /api/gear/shares/{id}.
func (h *SharingHandler) DeleteShare(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteShare(r.Context(), h.DB, callerID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	jsonMessage(w, "Share revoked successfully")
}
