package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/service"
	"lodge/shared/timezone"
)

func TestApply(t *testing.T) {
	checkIn := timezone.Now().Add(-48 * time.Hour)

	tests := []struct {
		name       string
		booking    model.Booking
		action     service.Action
		wantStatus string
		wantErr    bool
	}{
		{
			name:       "check in a paid confirmed booking",
			booking:    model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPaid},
			action:     service.ActionCheckIn,
			wantStatus: model.StatusCheckedIn,
		},
		{
			name:       "check in a partially paid booking",
			booking:    model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPartial},
			action:     service.ActionCheckIn,
			wantStatus: model.StatusCheckedIn,
		},
		{
			name:    "check in an unpaid booking",
			booking: model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPending},
			action:  service.ActionCheckIn,
			wantErr: true,
		},
		{
			name:    "check in a cancelled booking",
			booking: model.Booking{BookingStatus: model.StatusCancelled, PaymentStatus: model.PaymentPaid},
			action:  service.ActionCheckIn,
			wantErr: true,
		},
		{
			name:       "check out a checked-in booking",
			booking:    model.Booking{BookingStatus: model.StatusCheckedIn, PaymentStatus: model.PaymentPaid},
			action:     service.ActionCheckOut,
			wantStatus: model.StatusCheckedOut,
		},
		{
			name:    "check out before check-in",
			booking: model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPaid},
			action:  service.ActionCheckOut,
			wantErr: true,
		},
		{
			name:       "cancel a confirmed booking",
			booking:    model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPending},
			action:     service.ActionCancel,
			wantStatus: model.StatusCancelled,
		},
		{
			name:       "cancel a checked-in booking",
			booking:    model.Booking{BookingStatus: model.StatusCheckedIn, PaymentStatus: model.PaymentPaid},
			action:     service.ActionCancel,
			wantStatus: model.StatusCancelled,
		},
		{
			name:    "cancel a checked-out booking",
			booking: model.Booking{BookingStatus: model.StatusCheckedOut, PaymentStatus: model.PaymentPaid},
			action:  service.ActionCancel,
			wantErr: true,
		},
		{
			name:    "cancel twice",
			booking: model.Booking{BookingStatus: model.StatusCancelled},
			action:  service.ActionCancel,
			wantErr: true,
		},
		{
			name:       "mark no-show after check-in date",
			booking:    model.Booking{BookingStatus: model.StatusConfirmed, CheckIn: checkIn},
			action:     service.ActionMarkNoShow,
			wantStatus: model.StatusNoShow,
		},
		{
			name:    "mark no-show before check-in date",
			booking: model.Booking{BookingStatus: model.StatusConfirmed, CheckIn: timezone.Now().Add(48 * time.Hour)},
			action:  service.ActionMarkNoShow,
			wantErr: true,
		},
		{
			name:    "mark no-show on a checked-in booking",
			booking: model.Booking{BookingStatus: model.StatusCheckedIn, CheckIn: checkIn},
			action:  service.ActionMarkNoShow,
			wantErr: true,
		},
		{
			name:       "confirm payment on a confirmed booking",
			booking:    model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPending},
			action:     service.ActionConfirmPayment,
			wantStatus: model.StatusConfirmed,
		},
		{
			name:    "confirm payment on a cancelled booking",
			booking: model.Booking{BookingStatus: model.StatusCancelled},
			action:  service.ActionConfirmPayment,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := service.Apply(tt.booking, tt.action, timezone.Now(), "")
			if tt.wantErr {
				var stateErr *model.StateError

				assert.Error(t, err)
				assert.True(t, errors.As(err, &stateErr))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, next.BookingStatus)
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	booking := model.Booking{BookingStatus: model.StatusCheckedIn, PaymentStatus: model.PaymentPaid}

	next, err := service.Apply(booking, service.ActionCheckOut, timezone.Now(), "")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusCheckedOut, next.BookingStatus)
	assert.Equal(t, model.StatusCheckedIn, booking.BookingStatus)
}

func TestApplyCancelRecordsReason(t *testing.T) {
	at := timezone.Now()
	booking := model.Booking{BookingStatus: model.StatusConfirmed}

	next, err := service.Apply(booking, service.ActionCancel, at, "change of plans")

	assert.NoError(t, err)
	assert.Equal(t, "change of plans", next.CancelReason)
	assert.NotNil(t, next.CancelledAt)
	assert.Equal(t, at, *next.CancelledAt)
}

func TestUpdatePaymentStatus(t *testing.T) {
	booking := model.Booking{BookingStatus: model.StatusConfirmed, PaymentStatus: model.PaymentPending}

	next, err := service.UpdatePaymentStatus(booking, model.PaymentPaid, "pay_123")

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, next.PaymentStatus)
	assert.Equal(t, "pay_123", next.PaymentRef)

	_, err = service.UpdatePaymentStatus(model.Booking{BookingStatus: model.StatusCancelled}, model.PaymentPaid, "")
	assert.Error(t, err)
}
