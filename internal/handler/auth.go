package handler

import (
	"net/http"

	"github.com/gmgoals/goals/internal/metrics"
	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
	}
}

// Login exchanges the shared password for a session token. A wrong password
// is a normal 200 response with success=false.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !h.authService.VerifyPassword(req.Password) {
		h.metrics.LoginAttempt("failure")
		writeJSON(w, http.StatusOK, model.LoginResponse{Success: false, Message: "Incorrect password"})
		return
	}

	token, expiry, err := h.authService.GenerateToken()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.authService.SetJWTCookie(w, token, expiry)
	h.metrics.LoginAttempt("success")
	writeJSON(w, http.StatusOK, model.LoginResponse{Success: true, Token: token, Message: "Welcome!"})
}

// Logout clears the cookie. Tokens are stateless, so a copied bearer token
// stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}
