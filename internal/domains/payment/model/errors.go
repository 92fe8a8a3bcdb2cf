package model

import (
	"fmt"

	"lodge/shared/failure"
)

// ErrSignatureMismatch is a security failure, never a transient one. The
// booking must not be confirmed and the attempt is audited.
var ErrSignatureMismatch = failure.BadRequestFromString("payment signature verification failed")

// ReconciliationError means the provider confirmed the payment but local
// settlement failed. The caller must not report plain success or plain
// failure; the payment is parked for support.
type ReconciliationError struct {
	OrderID   string
	PaymentID string
	Err       error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment %s for order %s succeeded but booking settlement is pending support", e.PaymentID, e.OrderID)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
