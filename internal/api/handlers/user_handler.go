package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/auth"
	"github.com/cursus-lms/cursus-be/internal/services"
)

// Profile pictures larger than this are rejected.
const maxUploadBytes = 10 << 20

// UserHandler handles HTTP requests for signup, login and profiles.
type UserHandler struct {
	service    services.UserServiceProvider
	tokens     *auth.TokenManager
	eventSvc   services.EventServiceProvider
	uploadPath string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, eventSvc services.EventServiceProvider, uploadPath string) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, eventSvc: eventSvc, uploadPath: uploadPath}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	if err := h.eventSvc.CreateEvent("user.registered", "info", "New user "+user.Username+" registered", &user.ID); err != nil {
		log.Error().Err(err).Msg("Failed to record registration event")
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and session token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the current session token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to revoke session token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetProfile returns the currently authenticated user.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles multipart profile updates: optional username, email
// and profile picture upload.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")

	var picturePath string
	file, header, err := r.FormFile("profilePicture")
	if err == nil {
		defer file.Close()
		picturePath, err = h.saveProfilePicture(file, header.Filename)
		if err != nil {
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to store profile picture")
			http.Error(w, "Failed to store profile picture", http.StatusInternalServerError)
			return
		}
	} else if err != http.ErrMissingFile {
		http.Error(w, "Invalid profile picture upload", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateProfile(claims.UserID, username, email, picturePath)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to update profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// ChangePassword handles changing the authenticated user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdatePassword(claims.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to change password")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// saveProfilePicture writes the upload under the configured upload
// directory with a random name and returns the public path.
func (h *UserHandler) saveProfilePicture(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(h.uploadPath, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
