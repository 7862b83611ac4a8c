package handler

import (
	"encoding/json"
	"net/http"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/service"
	"hoa-backend/pkg/errors"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, errors.NewValidationError("email and password are required", nil))
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
