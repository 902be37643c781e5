package dto

import "time"

const (
	EventProductBooked           = "product.booked"
	EventBookingRevoked          = "booking.revoked"
	EventPaymentCompleted        = "payment.completed"
	EventPaymentSettlementFailed = "payment.settlement_failed"
	EventSellerVerified          = "seller.verified"
)

type BookingEvent struct {
	Event     string `json:"event"`
	ProductID string `json:"product_id"`
	OrderID   string `json:"order_id,omitempty"`
	Email     string `json:"email"`
}

type PaymentEvent struct {
	Event         string  `json:"event"`
	ProductID     string  `json:"product_id"`
	TransactionID string  `json:"transaction_id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	Step          string  `json:"step,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	Attempt       int     `json:"attempt,omitempty"`
	// RetryAt is the earliest time a settlement replay may run.
	RetryAt time.Time `json:"retry_at,omitzero"`
}

type SellerVerifiedEvent struct {
	Event            string `json:"event"`
	Email            string `json:"email"`
	ProductsVerified int64  `json:"products_verified"`
}

// EventEnvelope is decoded first to route a message by its event name.
type EventEnvelope struct {
	Event string `json:"event"`
}
