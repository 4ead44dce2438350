package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/auth"
	"github.com/cursus-lms/cursus-be/internal/services"
)

// PaymentHandler handles HTTP requests for checkout.
type PaymentHandler struct {
	service services.PaymentServiceProvider
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service services.PaymentServiceProvider) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// OrderPayload defines the structure for order creation requests.
type OrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// VerifyPayload defines the structure for payment verification callbacks.
type VerifyPayload struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// CreateOrder forwards a checkout to the payment gateway.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), claims.UserID, payload.Amount, payload.Currency, payload.Receipt)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create payment order")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// Verify checks a gateway payment callback's signature.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var payload VerifyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.VerifyPayment(r.Context(), payload.OrderID, payload.PaymentID, payload.Signature)
	if err != nil {
		log.Warn().Err(err).Str("order_id", payload.OrderID).Msg("Payment verification rejected")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Payment verified",
		"order":   order,
	})
}
