package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/models"
	"github.com/cursus-lms/cursus-be/internal/services"
)

// CourseHandler handles HTTP requests for the course catalog.
type CourseHandler struct {
	service services.CourseServiceProvider
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(service services.CourseServiceProvider) *CourseHandler {
	return &CourseHandler{service: service}
}

// GetAll handles the request to list the catalog.
func (h *CourseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.GetAllCourses()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve courses")
		http.Error(w, "Failed to retrieve courses", http.StatusInternalServerError)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	respondJSON(w, http.StatusOK, courses)
}

// Get handles the request to get a single course by its ID.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	course, err := h.service.GetCourseByID(id)
	if err != nil {
		log.Warn().Err(err).Str("course_id", id).Msg("Failed to get course")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, course)
}

// Create handles the administrative request to add a course.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateCourse(course)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create course")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update handles the administrative request to update a course.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateCourse(id, course)
	if err != nil {
		log.Error().Err(err).Str("course_id", id).Msg("Failed to update course")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles the administrative request to remove a course.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCourse(id); err != nil {
		log.Error().Err(err).Str("course_id", id).Msg("Failed to delete course")
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
