package dto

import (
	"time"

	"lodge/internal/domains/booking/model"
	"lodge/shared"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type GuestDetail struct {
	Name     string `json:"name"      validate:"required,max=100"`
	Age      int    `json:"age"       validate:"omitempty,min=0,max=120"`
	IDType   string `json:"id_type"   validate:"omitempty,max=30"`
	IDNumber string `json:"id_number" validate:"omitempty,max=50"`
}

type CreateBookingRequest struct {
	RoomID     string        `json:"room_id"     validate:"required"`
	CheckIn    string        `json:"check_in"    validate:"required"`
	CheckOut   string        `json:"check_out"   validate:"required"`
	Adults     int           `json:"adults"      validate:"required,min=1,max=10"`
	Children   int           `json:"children"    validate:"omitempty,min=0,max=10"`
	Infants    int           `json:"infants"     validate:"omitempty,min=0,max=5"`
	CouponCode string        `json:"coupon_code" validate:"omitempty,alphanum,uppercase,max=20"`
	Guests     []GuestDetail `json:"guests"      validate:"omitempty,dive"`
	Source     string        `json:"source"      validate:"omitempty,max=30"`
	Notes      string        `json:"notes"       validate:"omitempty,max=500"`
}

func (c *CreateBookingRequest) StayWindow() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(dateLayout, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.Parse(dateLayout, c.CheckOut)

	return checkIn, checkOut, err
}

func (c *CreateBookingRequest) GuestModels(bookingID string) []model.Guest {
	guests := make([]model.Guest, len(c.Guests))
	for i, g := range c.Guests {
		guests[i] = model.Guest{
			ID:        uuid.NewString(),
			BookingID: bookingID,
			Name:      g.Name,
			Age:       g.Age,
			IDType:    g.IDType,
			IDNumber:  g.IDNumber,
		}
	}

	return guests
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}

type UpdatePaymentStatusRequest struct {
	Status     string `json:"status"      validate:"required,oneof=pending partial paid refunded failed"`
	PaymentRef string `json:"payment_ref" validate:"omitempty,max=100"`
}

type GuestResponse struct {
	Name     string `json:"name"`
	Age      int    `json:"age,omitempty"`
	IDType   string `json:"id_type,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

type BookingResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	CustomerID    string          `json:"customer_id"`
	RoomID        string          `json:"room_id"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	CheckIn       string          `json:"check_in"`
	CheckOut      string          `json:"check_out"`
	Nights        int             `json:"nights"`
	Adults        int             `json:"adults"`
	Children      int             `json:"children"`
	Infants       int             `json:"infants"`
	TotalGuests   int             `json:"total_guests"`
	RoomRate      int64           `json:"room_rate"`
	Subtotal      int64           `json:"subtotal"`
	Taxes         int64           `json:"taxes"`
	Discount      int64           `json:"discount"`
	TotalAmount   int64           `json:"total_amount"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaymentRef    string          `json:"payment_ref,omitempty"`
	BookingStatus string          `json:"booking_status"`
	Source        string          `json:"source,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CancelledAt   string          `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	GuestDetails  []GuestResponse `json:"guest_details,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Code = booking.Code
	r.CustomerID = booking.CustomerID
	r.RoomID = booking.RoomID
	r.CouponCode = booking.CouponCode
	r.CheckIn = booking.CheckIn.Format(dateLayout)
	r.CheckOut = booking.CheckOut.Format(dateLayout)
	r.Nights = booking.Nights()
	r.Adults = booking.Adults
	r.Children = booking.Children
	r.Infants = booking.Infants
	r.TotalGuests = booking.TotalGuests()
	r.RoomRate = booking.RoomRate
	r.Subtotal = booking.Subtotal
	r.Taxes = booking.Taxes
	r.Discount = booking.Discount
	r.TotalAmount = booking.TotalAmount
	r.PaymentStatus = booking.PaymentStatus
	r.PaymentMethod = booking.PaymentMethod
	r.PaymentRef = booking.PaymentRef
	r.BookingStatus = booking.BookingStatus
	r.Source = booking.Source
	r.Notes = booking.Notes
	r.CancelReason = booking.CancelReason

	if booking.CancelledAt != nil {
		r.CancelledAt = timezone.Format(*booking.CancelledAt, time.RFC3339)
	}
}

func (r *BookingResponse) SetGuests(guests []model.Guest) {
	r.GuestDetails = make([]GuestResponse, len(guests))
	for i, g := range guests {
		r.GuestDetails[i] = GuestResponse{
			Name:     g.Name,
			Age:      g.Age,
			IDType:   g.IDType,
			IDNumber: g.IDNumber,
		}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

func NewBookingModel(req CreateBookingRequest, customerID, code string, checkIn, checkOut time.Time, rate, subtotal, taxes, discount, total int64) model.Booking {
	return model.Booking{
		ID:            uuid.NewString(),
		Code:          code,
		CustomerID:    customerID,
		RoomID:        req.RoomID,
		CouponCode:    req.CouponCode,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Adults:        req.Adults,
		Children:      req.Children,
		Infants:       req.Infants,
		RoomRate:      rate,
		Subtotal:      subtotal,
		Taxes:         taxes,
		Discount:      discount,
		TotalAmount:   total,
		PaymentStatus: model.PaymentPending,
		BookingStatus: model.StatusConfirmed,
		Source:        req.Source,
		Notes:         req.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}
