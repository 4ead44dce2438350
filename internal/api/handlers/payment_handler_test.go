package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursus-lms/cursus-be/internal/auth"
	"github.com/cursus-lms/cursus-be/internal/models"
	"github.com/cursus-lms/cursus-be/internal/payment"
	"github.com/cursus-lms/cursus-be/internal/services"
)

// fakePaymentService verifies signatures for real but skips persistence.
type fakePaymentService struct {
	secret string
}

func (f *fakePaymentService) CreateOrder(ctx context.Context, userID string, amount int64, currency, receipt string) (payment.GatewayOrder, error) {
	if amount <= 0 {
		return payment.GatewayOrder{}, services.ErrValidation
	}
	return payment.GatewayOrder{ID: "order_1", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (f *fakePaymentService) VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) (models.Order, error) {
	if !payment.VerifySignature(f.secret, gatewayOrderID, paymentID, signature) {
		return models.Order{}, services.ErrInvalidSignature
	}
	return models.Order{GatewayOrderID: gatewayOrderID, PaymentID: paymentID, Status: models.OrderStatusPaid}, nil
}

func newPaymentTestRouter() (*chi.Mux, *auth.TokenManager) {
	tokens := auth.NewTokenManager(testJWTSecret, time.Hour, auth.NewMemoryDenylist())
	h := NewPaymentHandler(&fakePaymentService{secret: "S"})

	r := chi.NewRouter()
	r.Post("/api/payment/verify", h.Verify)
	r.With(tokens.Middleware()).Post("/api/payment/order", h.CreateOrder)
	return r, tokens
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	router, _ := newPaymentTestRouter()

	rec := postJSON(t, router, "/api/payment/order", OrderPayload{Amount: 2500, Currency: "USD"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderAuthorized(t *testing.T) {
	router, tokens := newPaymentTestRouter()

	token, err := tokens.Generate(models.User{ID: "user-1", Username: "demo"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/order",
		jsonBody(t, OrderPayload{Amount: 2500, Currency: "USD", Receipt: "rcpt_1"}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "order_1")
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	router, _ := newPaymentTestRouter()

	rec := postJSON(t, router, "/api/payment/verify", VerifyPayload{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: payment.Sign("S", "order_1", "pay_1"),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.OrderStatusPaid)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	router, _ := newPaymentTestRouter()

	sig := payment.Sign("S", "order_1", "pay_1")
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}

	rec := postJSON(t, router, "/api/payment/verify", VerifyPayload{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: string(mutated),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
