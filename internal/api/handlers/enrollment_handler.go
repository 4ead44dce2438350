package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/auth"
	"github.com/cursus-lms/cursus-be/internal/models"
	"github.com/cursus-lms/cursus-be/internal/services"
)

// EnrollmentHandler handles HTTP requests for course enrollment.
type EnrollmentHandler struct {
	service  services.EnrollmentServiceProvider
	eventSvc services.EventServiceProvider
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(service services.EnrollmentServiceProvider, eventSvc services.EventServiceProvider) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, eventSvc: eventSvc}
}

// EnrollPayload defines the structure for enrollment requests.
type EnrollPayload struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
}

// Enroll handles the request to enroll a user in a course.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var payload EnrollPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	enrollment, err := h.service.Enroll(payload.UserID, payload.CourseID)
	if err != nil {
		log.Warn().Err(err).Str("course_id", payload.CourseID).Str("user_id", payload.UserID).Msg("Failed to enroll")
		respondError(w, err)
		return
	}

	if err := h.eventSvc.CreateEvent("course.enrolled", "info",
		"User enrolled in course "+payload.CourseID, &enrollment.UserID); err != nil {
		log.Error().Err(err).Msg("Failed to record enrollment event")
	}

	respondJSON(w, http.StatusCreated, enrollment)
}

// GetMine lists the authenticated user's enrolled courses.
func (h *EnrollmentHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	courses, err := h.service.GetUserCourses(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list enrollments")
		http.Error(w, "Failed to list enrollments", http.StatusInternalServerError)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	respondJSON(w, http.StatusOK, courses)
}
