package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "payment_orders"
	EntityName = "payment_order"

	OrphanTableName  = "orphaned_payments"
	OrphanEntityName = "orphaned_payment"

	FieldID          = "id"
	FieldOrderID     = "order_id"
	FieldBookingCode = "booking_code"
	FieldStatus      = "status"
	FieldResolved    = "resolved"
)

const (
	// StatusCreated is the provider order awaiting payment; StatusCaptured is
	// terminal. The created -> captured flip is the idempotency gate for
	// replayed completion callbacks.
	StatusCreated  = "created"
	StatusCaptured = "captured"
)

type Order struct {
	ID          string `db:"id"`
	OrderID     string `db:"order_id"`
	BookingCode string `db:"booking_code"`
	Amount      int64  `db:"amount"`
	Currency    string `db:"currency"`
	Status      string `db:"status"`
	PaymentID   string `db:"payment_id"`
	model.Metadata
}

// OrphanedPayment records a verified payment whose local settlement failed.
// Rows here are worked off by support; the money is real even when the
// booking is not.
type OrphanedPayment struct {
	ID          string    `db:"id"`
	OrderID     string    `db:"order_id"`
	PaymentID   string    `db:"payment_id"`
	BookingCode string    `db:"booking_code"`
	Amount      int64     `db:"amount"`
	Currency    string    `db:"currency"`
	Reason      string    `db:"reason"`
	Resolved    bool      `db:"resolved"`
	CreatedAt   time.Time `db:"created_at"`
}

// Receipt is the archived proof of settlement.
type Receipt struct {
	BookingCode string    `json:"booking_code"`
	OrderID     string    `json:"order_id"`
	PaymentID   string    `json:"payment_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	PaidAt      time.Time `json:"paid_at"`
}
