package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/gearbox/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a client error as {"message": ...}.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"message": message})
}

// jsonMessage writes a success message.
func jsonMessage(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": message})
}

// notFoundMessages maps store sentinels to client-facing messages. Checked in
// order, so the generic ErrNotFound comes last.
var notFoundMessages = []struct {
	err     error
	message string
}{
	{store.ErrGearNotFound, "Gear item not found"},
	{store.ErrUserNotFound, "User not found with that email"},
	{store.ErrImageNotFound, "Image not found"},
	{store.ErrShareNotFound, "Share not found"},
	{store.ErrNotFound, "Not found"},
}

// writeError is the single place store and domain errors become HTTP
// responses. Unrecognized errors are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, nf := range notFoundMessages {
		if errors.Is(err, nf.err) {
			jsonError(w, http.StatusNotFound, nf.message)
			return
		}
	}

	var verr *store.ValidationError
	if errors.As(err, &verr) {
		jsonError(w, http.StatusBadRequest, verr.Message)
		return
	}

	if errors.Is(err, store.ErrConflict) {
		jsonError(w, http.StatusConflict, "Resource already exists")
		return
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		jsonError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
