package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/services"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  services.CartServiceProvider
	eventSvc services.EventServiceProvider
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service services.CartServiceProvider, eventSvc services.EventServiceProvider) *CartHandler {
	return &CartHandler{service: service, eventSvc: eventSvc}
}

// CartItemPayload defines the structure for cart mutations.
type CartItemPayload struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
	Quantity int    `json:"quantity"`
}

// Get handles the request to fetch a user's cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	cart, err := h.service.GetCart(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to get cart")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Add handles the request to add a course to a cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var payload CartItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	cart, err := h.service.AddItem(payload.UserID, payload.CourseID, payload.Quantity)
	if err != nil {
		log.Warn().Err(err).Str("user_id", payload.UserID).Str("course_id", payload.CourseID).Msg("Failed to add cart item")
		respondError(w, err)
		return
	}

	if err := h.eventSvc.CreateEvent("cart.updated", "info",
		"Course "+payload.CourseID+" added to cart", &payload.UserID); err != nil {
		log.Error().Err(err).Msg("Failed to record cart event")
	}

	respondJSON(w, http.StatusOK, cart)
}

// Remove handles the request to remove a course from a cart.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var payload CartItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cart, err := h.service.RemoveItem(payload.UserID, payload.CourseID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", payload.UserID).Str("course_id", payload.CourseID).Msg("Failed to remove cart item")
		respondError(w, err)
		return
	}

	if err := h.eventSvc.CreateEvent("cart.updated", "info",
		"Course "+payload.CourseID+" removed from cart", &payload.UserID); err != nil {
		log.Error().Err(err).Msg("Failed to record cart event")
	}

	respondJSON(w, http.StatusOK, cart)
}
