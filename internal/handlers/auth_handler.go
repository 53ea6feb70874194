package handlers

import (
	"encoding/json"
	"net/http"

	"propman-backend/internal/auth"
	"propman-backend/internal/models"
	"propman-backend/internal/repositories"
)

type AuthHandler struct {
	UserRepo   *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewAuthHandler(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		UserRepo:   userRepo,
		JWTManager: jwtManager,
	}
}

// Login handles operator authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if !user.IsActive {
		http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&models.AuthResponse{Token: token, User: user})
}
