package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	GuestTableName  = "booking_guests"
	GuestEntityName = "booking_guest"

	FieldID            = "id"
	FieldCode          = "code"
	FieldCustomerID    = "customer_id"
	FieldRoomID        = "room_id"
	FieldCouponCode    = "coupon_code"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldAdults        = "adults"
	FieldChildren      = "children"
	FieldInfants       = "infants"
	FieldRoomRate      = "room_rate"
	FieldSubtotal      = "subtotal"
	FieldTaxes         = "taxes"
	FieldDiscount      = "discount"
	FieldTotalAmount   = "total_amount"
	FieldPaymentStatus = "payment_status"
	FieldPaymentMethod = "payment_method"
	FieldPaymentRef    = "payment_ref"
	FieldBookingStatus = "booking_status"
	FieldSource        = "source"
	FieldNotes         = "notes"
	FieldCancelledAt   = "cancelled_at"
	FieldCancelReason  = "cancel_reason"
)

const (
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

const (
	PaymentPending  = "pending"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

const (
	MinAdults   = 1
	MaxAdults   = 10
	MaxChildren = 10
	MaxInfants  = 5

	// Same-day bookings made across timezones may carry a check-in date that is
	// already "yesterday" for the server.
	CheckInGrace = 24 * time.Hour
)

type Booking struct {
	ID            string     `db:"id"`
	Code          string     `db:"code"`
	CustomerID    string     `db:"customer_id"`
	RoomID        string     `db:"room_id"`
	CouponCode    string     `db:"coupon_code"`
	CheckIn       time.Time  `db:"check_in"`
	CheckOut      time.Time  `db:"check_out"`
	Adults        int        `db:"adults"`
	Children      int        `db:"children"`
	Infants       int        `db:"infants"`
	RoomRate      int64      `db:"room_rate"`
	Subtotal      int64      `db:"subtotal"`
	Taxes         int64      `db:"taxes"`
	Discount      int64      `db:"discount"`
	TotalAmount   int64      `db:"total_amount"`
	PaymentStatus string     `db:"payment_status"`
	PaymentMethod string     `db:"payment_method"`
	PaymentRef    string     `db:"payment_ref"`
	BookingStatus string     `db:"booking_status"`
	Source        string     `db:"source"`
	Notes         string     `db:"notes"`
	CancelledAt   *time.Time `db:"cancelled_at"`
	CancelReason  string     `db:"cancel_reason"`
	model.Metadata
}

// Guest details are informational only and carry no invariants.
type Guest struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	Name      string `db:"name"`
	Age       int    `db:"age"`
	IDType    string `db:"id_type"`
	IDNumber  string `db:"id_number"`
}

// Nights is derived, never stored: recomputing on demand avoids staleness.
func (b *Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

func (b *Booking) TotalGuests() int {
	return b.Adults + b.Children + b.Infants
}

func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	nights := int(hours / 24)

	if hours > float64(nights)*24 {
		nights++
	}

	return nights
}

// Overlaps reports whether two stays intersect under half-open interval
// semantics [checkIn, checkOut): a checkout day is free for a new check-in.
func Overlaps(aCheckIn, aCheckOut, bCheckIn, bCheckOut time.Time) bool {
	return aCheckIn.Before(bCheckOut) && aCheckOut.After(bCheckIn)
}

// HoldsRoom reports whether a booking in the given status blocks its room for
// the stay window. Cancelled bookings free the room immediately; a no-show
// still held the room up to its original checkout.
func HoldsRoom(status string) bool {
	return status != StatusCancelled
}
