package model

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// Event is the payload published to the booking topic. Consumers are external
// (notifications, analytics); delivery is fire and forget.
type Event struct {
	Type        string    `json:"type"`
	BookingCode string    `json:"booking_code"`
	RoomID      string    `json:"room_id"`
	CustomerID  string    `json:"customer_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}
