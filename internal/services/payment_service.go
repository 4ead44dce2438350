package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/models"
	"github.com/cursus-lms/cursus-be/internal/payment"
)

// PaymentServiceProvider defines the interface for payment services.
type PaymentServiceProvider interface {
	CreateOrder(ctx context.Context, userID string, amount int64, currency, receipt string) (payment.GatewayOrder, error)
	VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) (models.Order, error)
}

// PaymentService orchestrates checkout: it forwards orders to the external
// gateway, records them locally, and on a verified callback converts the
// user's cart into enrollments.
type PaymentService struct {
	db            *sql.DB
	gateway       payment.Gateway
	gatewaySecret string
	cartSvc       CartServiceProvider
	enrollmentSvc EnrollmentServiceProvider
	eventSvc      EventServiceProvider
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(db *sql.DB, gateway payment.Gateway, gatewaySecret string, cartSvc CartServiceProvider, enrollmentSvc EnrollmentServiceProvider, eventSvc EventServiceProvider) *PaymentService {
	return &PaymentService{
		db:            db,
		gateway:       gateway,
		gatewaySecret: gatewaySecret,
		cartSvc:       cartSvc,
		enrollmentSvc: enrollmentSvc,
		eventSvc:      eventSvc,
	}
}

// CreateOrder registers an order with the gateway and records it with
// status "created".
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, amount int64, currency, receipt string) (payment.GatewayOrder, error) {
	if amount <= 0 {
		return payment.GatewayOrder{}, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	if currency == "" {
		return payment.GatewayOrder{}, fmt.Errorf("currency is required: %w", ErrValidation)
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, amount, currency, receipt)
	if err != nil {
		return payment.GatewayOrder{}, fmt.Errorf("failed to create gateway order: %w", err)
	}

	order := models.Order{
		ID:             uuid.New().String(),
		UserID:         userID,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		Status:         models.OrderStatusCreated,
	}

	stmt, err := s.db.Prepare("INSERT INTO orders(id, user_id, gateway_order_id, amount, currency, receipt, status) VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return payment.GatewayOrder{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(order.ID, order.UserID, order.GatewayOrderID, order.Amount, order.Currency, order.Receipt, order.Status)
	if err != nil {
		return payment.GatewayOrder{}, err
	}
	return gatewayOrder, nil
}

// VerifyPayment checks the gateway callback signature. A match marks the
// order paid, enrolls the user in every course in their cart and clears the
// cart. Any mismatch rejects the callback and leaves the order untouched.
func (s *PaymentService) VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) (models.Order, error) {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return models.Order{}, fmt.Errorf("orderId, paymentId and signature are required: %w", ErrValidation)
	}

	if !payment.VerifySignature(s.gatewaySecret, gatewayOrderID, paymentID, signature) {
		return models.Order{}, ErrInvalidSignature
	}

	var order models.Order
	row := s.db.QueryRow("SELECT id, user_id, gateway_order_id, amount, currency, receipt, status, created_at FROM orders WHERE gateway_order_id = ?", gatewayOrderID)
	var receipt sql.NullString
	err := row.Scan(&order.ID, &order.UserID, &order.GatewayOrderID, &order.Amount, &order.Currency, &receipt, &order.Status, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Order{}, fmt.Errorf("order %s: %w", gatewayOrderID, ErrNotFound)
		}
		return models.Order{}, err
	}
	order.Receipt = receipt.String

	_, err = s.db.Exec("UPDATE orders SET status = ?, payment_id = ? WHERE id = ?", models.OrderStatusPaid, paymentID, order.ID)
	if err != nil {
		return models.Order{}, err
	}
	order.Status = models.OrderStatusPaid
	order.PaymentID = paymentID

	s.fulfillOrder(order)

	if err := s.eventSvc.CreateEvent("payment.captured", "info",
		fmt.Sprintf("Payment %s captured for order %s", paymentID, gatewayOrderID), &order.UserID); err != nil {
		log.Error().Err(err).Msg("Failed to record payment event")
	}

	return order, nil
}

// fulfillOrder enrolls the paying user in every course in their cart, then
// empties the cart. Courses the user already owns are skipped.
func (s *PaymentService) fulfillOrder(order models.Order) {
	cart, err := s.cartSvc.GetCart(order.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return // nothing to fulfill
		}
		log.Error().Err(err).Str("user_id", order.UserID).Msg("Failed to load cart for fulfillment")
		return
	}

	for _, item := range cart.Items {
		if _, err := s.enrollmentSvc.Enroll(order.UserID, item.CourseID); err != nil && !errors.Is(err, ErrDuplicate) {
			log.Error().Err(err).Str("course_id", item.CourseID).Msg("Failed to enroll purchased course")
		}
	}

	if err := s.cartSvc.ClearCart(order.UserID); err != nil {
		log.Error().Err(err).Str("user_id", order.UserID).Msg("Failed to clear cart after payment")
	}
}
