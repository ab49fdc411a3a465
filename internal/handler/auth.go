package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/service"
)

// AuthHandler manages registration, login and the token lifecycle.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister  → create the user and hand back a first token
//   - HandleLogin     → check credentials and hand back a new token
//   - HandleLogout    → revoke the token this request was made with
//   - HandleLogoutAll → revoke every token of the caller
//   - HandleMe        → return the caller's profile
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"username": "alice", "password": "..."}
// RESPONSE: 201 {"token": "<256 hex chars>", "username": "alice"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{Token: res.Token.Key, Username: res.User.Username})
}

// HandleLogin issues a new token for valid credentials.
//
// HTTP: POST /api/auth/login
// RESPONSE: 200 {"token": "...", "username": "alice"} or 401 {"detail": "Invalid credentials"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: res.Token.Key, Username: res.User.Username})
}

// HandleLogout revokes only the presented token; the caller's other sessions
// keep working.
//
// HTTP: POST /api/auth/logout
// Auth: Required (RequireToken)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	key, hasKey := auth.TokenFromContext(r.Context())
	if !ok || !hasKey {
		writeError(w, h.logger, apperror.Unauthenticated("Unauthorized"))
		return
	}

	if err := h.auth.Logout(r.Context(), principal, key); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Detail: "Logged out successfully"})
}

// HandleLogoutAll revokes every token of the caller, this one included.
//
// HTTP: POST /api/auth/logout-all
// Auth: Required (RequireToken)
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthenticated("Unauthorized"))
		return
	}

	if _, err := h.auth.LogoutAll(r.Context(), principal); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Detail: "Logged out of all sessions"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/auth/me
// Auth: Required (RequireToken)
//
// The password hash is never serialised (json:"-" on model.User).
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthenticated("Unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, principal)
}
