package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/gearbox/internal/filestore"
)

// RouterOption customizes NewRouter.
type RouterOption func(*AuthHandler)

// WithResetNotifier sets where issued password reset tokens are delivered.
func WithResetNotifier(fn ResetNotifier) RouterOption {
	return func(h *AuthHandler) { h.OnResetToken = fn }
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, files filestore.Storage, opts ...RouterOption) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	for _, opt := range opts {
		opt(authHandler)
	}
	gearHandler := &GearHandler{DB: db, Files: files}
	sharingHandler := &SharingHandler{DB: db}
	maintenanceHandler := &MaintenanceHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	protected := func(fn http.HandlerFunc) http.Handler { return authMW(fn) }

	// Public: account entry points.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh-token", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/password-reset", authHandler.RequestPasswordReset)
	mux.HandleFunc("PUT /api/auth/password-reset/{token}", authHandler.ResetPassword)

	// Authenticated account routes.
	mux.Handle("GET /api/auth/me", protected(authHandler.Me))
	mux.Handle("PUT /api/auth/password", protected(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", protected(authHandler.Logout))

	// Gear. Literal segments take precedence over {id}.
	mux.Handle("GET /api/gear", protected(gearHandler.List))
	mux.Handle("POST /api/gear", protected(gearHandler.Create))
	mux.Handle("GET /api/gear/search", protected(gearHandler.Search))
	mux.Handle("GET /api/gear/stats", protected(gearHandler.Stats))
	mux.Handle("GET /api/gear/{id}", protected(gearHandler.Get))
	mux.Handle("PUT /api/gear/{id}", protected(gearHandler.Update))
	mux.Handle("DELETE /api/gear/{id}", protected(gearHandler.Delete))

	// Images.
	mux.Handle("POST /api/gear/{id}/images", protected(gearHandler.UploadImages))
	mux.Handle("DELETE /api/gear/images/{imageId}", protected(gearHandler.DeleteImage))

	// Sharing.
	mux.Handle("POST /api/gear/share", protected(sharingHandler.Share))
	mux.Handle("GET /api/gear/shared-with-me", protected(sharingHandler.SharedWithMe))
	mux.Handle("GET /api/gear/shares", protected(sharingHandler.ListShares))
	mux.Handle("DELETE /api/gear/shares/{id}", protected(sharingHandler.DeleteShare))

	// Maintenance.
	mux.Handle("GET /api/gear/{id}/maintenance", protected(maintenanceHandler.List))
	mux.Handle("POST /api/gear/{id}/maintenance", protected(maintenanceHandler.Create))
	mux.Handle("GET /api/maintenance/due", protected(maintenanceHandler.Due))

	// Categories.
	mux.Handle("GET /api/categories", protected(categoriesHandler.List))
	mux.Handle("POST /api/categories", protected(categoriesHandler.Create))

	return mux
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
