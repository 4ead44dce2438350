package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cursus-lms/cursus-be/internal/services"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError converts a service failure into a status code plus a terse
// message. Unknown failures become an opaque 500; credential failures keep
// a single generic message so callers cannot tell the cases apart.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidSignature):
		http.Error(w, "Payment verification failed", http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicate):
		http.Error(w, "Already exists", http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
