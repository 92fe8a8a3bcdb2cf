package service

import (
	"time"

	"lodge/internal/domains/booking/model"
)

type Action string

const (
	ActionConfirmPayment Action = "confirm payment"
	ActionCheckIn        Action = "check in"
	ActionCheckOut       Action = "check out"
	ActionCancel         Action = "cancel"
	ActionMarkNoShow     Action = "mark no-show"
)

// Apply runs the booking state machine over a snapshot and returns the next
// snapshot, leaving the input untouched. Persistence is the caller's concern;
// keeping transitions pure makes every guard testable without a database.
func Apply(booking model.Booking, action Action, at time.Time, reason string) (model.Booking, error) {
	next := booking

	switch action {
	case ActionConfirmPayment:
		if booking.BookingStatus == model.StatusCancelled {
			return booking, &model.StateError{Status: booking.BookingStatus, Action: string(action)}
		}

		next.PaymentStatus = model.PaymentPaid

	case ActionCheckIn:
		if booking.BookingStatus != model.StatusConfirmed {
			return booking, &model.StateError{Status: booking.BookingStatus, Action: string(action)}
		}

		if booking.PaymentStatus != model.PaymentPaid && booking.PaymentStatus != model.PaymentPartial {
			return booking, &model.StateError{Status: booking.PaymentStatus, Action: string(action)}
		}

		next.BookingStatus = model.StatusCheckedIn

	case ActionCheckOut:
		if booking.BookingStatus != model.StatusCheckedIn {
			return booking, &model.StateError{Status: booking.BookingStatus, Action: string(action)}
		}

		next.BookingStatus = model.StatusCheckedOut

	case ActionCancel:
		if booking.BookingStatus != model.StatusConfirmed && booking.BookingStatus != model.StatusCheckedIn {
			return booking, &model.StateError{Status: booking.BookingStatus, Action: string(action)}
		}

		next.BookingStatus = model.StatusCancelled
		next.CancelledAt = &at
		next.CancelReason = reason

	case ActionMarkNoShow:
		if booking.BookingStatus != model.StatusConfirmed {
			return booking, &model.StateError{Status: booking.BookingStatus, Action: string(action)}
		}

		if !at.After(booking.CheckIn) {
			return booking, &model.StateError{Status: booking.BookingStatus, Action: "mark no-show before check-in date"}
		}

		next.BookingStatus = model.StatusNoShow

	default:
		return booking, &model.StateError{Status: booking.BookingStatus, Action: string(action)}
	}

	return next, nil
}

// UpdatePaymentStatus is independent of booking-status transitions and allowed
// from any state except cancelled.
func UpdatePaymentStatus(booking model.Booking, status, providerRef string) (model.Booking, error) {
	if booking.BookingStatus == model.StatusCancelled {
		return booking, &model.StateError{Status: booking.BookingStatus, Action: "update payment status"}
	}

	next := booking
	next.PaymentStatus = status

	if providerRef != "" {
		next.PaymentRef = providerRef
	}

	return next, nil
}
