package models

import "time"

// Order statuses.
const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Order records a checkout submitted to the external payment gateway.
// Amount is in the smallest currency unit.
type Order struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	PaymentID      string    `json:"paymentId,omitempty"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Receipt        string    `json:"receipt,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
