package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/gearbox/internal/auth"
	"github.com/erazemk/gearbox/internal/model"
	"github.com/erazemk/gearbox/internal/store"
)

// ResetNotifier delivers a freshly issued password reset token to its user.
type ResetNotifier func(ctx context.Context, user *model.User, token string)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	// OnResetToken receives issued reset tokens. Nil drops them.
	OnResetToken ResetNotifier
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, err := model.NormalizeEmail(req.Email)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, email, hash,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if errors.Is(err, store.ErrConflict) {
		jsonError(w, http.StatusConflict, "Email is already registered")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.issueTokens(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user registered", "user", user.Email)
	jsonResponse(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := store.GetUserByEmail(r.Context(), h.DB, email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive() {
		slog.Warn("login refused for inactive account", "user", user.Email, "status", user.AccountStatus)
		jsonError(w, http.StatusForbidden, "Account is "+user.AccountStatus)
		return
	}

	resp, err := h.issueTokens(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in", "user", user.Email)
	jsonResponse(w, http.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh-token. The presented refresh token is
// spent and a new pair is returned.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		jsonError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	refresh, digest, err := auth.NewRefreshToken()
	if err != nil {
		writeError(w, r, err)
		return
	}
	now := time.Now()
	user, err := store.RotateRefreshToken(r.Context(), h.DB,
		auth.HashToken(req.RefreshToken), digest, now.Add(auth.RefreshTokenExpiry), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "Refresh token is invalid or has expired")
		return
	}
	if !user.IsActive() {
		if err := store.ClearRefreshToken(r.Context(), h.DB, user.ID); err != nil {
			writeError(w, r, err)
			return
		}
		jsonError(w, http.StatusForbidden, "Account is "+user.AccountStatus)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, authResponse{Token: token, RefreshToken: refresh, User: user})
}

// issueTokens signs an access token and stores a fresh refresh token for user.
func (h *AuthHandler) issueTokens(ctx context.Context, user *model.User) (authResponse, error) {
	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email)
	if err != nil {
		return authResponse{}, err
	}
	refresh, digest, err := auth.NewRefreshToken()
	if err != nil {
		return authResponse{}, err
	}
	if err := store.SetRefreshToken(ctx, h.DB, user.ID, digest, time.Now().Add(auth.RefreshTokenExpiry)); err != nil {
		return authResponse{}, err
	}
	return authResponse{Token: token, RefreshToken: refresh, User: user}, nil
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := store.GetUser(r.Context(), h.DB, callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, store.ErrUserNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		jsonError(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, user.ID, hash); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user changed own password", "user", claims.Email)
	jsonMessage(w, "Password updated")
}

// Logout handles POST /api/auth/logout. The presented access token and the
// user's refresh token stop working.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if err := store.ClearRefreshToken(r.Context(), h.DB, claims.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	expires := time.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, expires); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged out", "user", claims.Email)
	jsonMessage(w, "Logged out")
}

// RequestPasswordReset handles POST /api/auth/password-reset. The response is
// the same whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	const generic = "If that email is registered, a reset link has been sent"

	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		jsonError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !user.IsActive() {
		jsonMessage(w, generic)
		return
	}

	token, digest, err := auth.NewResetToken()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.SetPasswordResetToken(r.Context(), h.DB, user.ID, digest, time.Now().Add(auth.ResetTokenExpiry)); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("password reset requested", "user", user.Email)
	if h.OnResetToken != nil {
		h.OnResetToken(r.Context(), user, token)
	}
	jsonMessage(w, generic)
}

// ResetPassword handles PUT /api/auth/password-reset/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := store.GetUserByResetToken(r.Context(), h.DB, auth.HashToken(r.PathValue("token")), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusBadRequest, "Reset token is invalid or has expired")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, user.ID, hash); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("password reset completed", "user", user.Email)
	jsonMessage(w, "Password has been reset")
}
