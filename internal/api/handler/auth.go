package handler

import (
	"encoding/json"
	"net/http"

	"github.com/edsafest/trivia-service/internal/api/middleware"
	"github.com/edsafest/trivia-service/internal/api/request"
	"github.com/edsafest/trivia-service/internal/api/response"
	"github.com/edsafest/trivia-service/internal/services/auth"
	"github.com/edsafest/trivia-service/internal/storage"
)

// AuthHandler handles login, logout and password endpoints
type AuthHandler struct {
	authService *auth.Service
	storage     storage.Storage
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, storage storage.Storage) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		storage:     storage,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Legajo == "" {
		WriteError(w, NewInvalidRequestError("legajo is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Legajo, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.InvalidateSession(session.Token)
	response.NoContent(w)
}

// Me handles GET /api/v1/auth/me. The profile is read fresh from the
// store so scores reflect quiz play since login.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	user, err := h.storage.GetUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(user))
}

// ChangePassword handles POST /api/v1/auth/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.NewPassword == "" {
		WriteError(w, NewInvalidRequestError("new_password is required"))
		return
	}

	userID := middleware.MustGetUserID(r.Context())
	if err := h.authService.ChangePassword(r.Context(), userID, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
