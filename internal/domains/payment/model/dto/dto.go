package dto

import (
	"time"

	"lodge/infras/razorpay"
	bookingDto "lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/payment/model"
	"lodge/shared"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	bookingDto.CreateBookingRequest
}

type CheckoutResponse struct {
	OrderID     string                     `json:"order_id"`
	ProviderKey string                     `json:"provider_key"`
	Amount      int64                      `json:"amount"`
	Currency    string                     `json:"currency"`
	Booking     bookingDto.BookingResponse `json:"booking"`
}

type CompletionRequest struct {
	OrderID   string `json:"order_id"  validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature"  validate:"required"`
}

const (
	CompletionConfirmed        = "confirmed"
	CompletionAlreadyProcessed = "already_processed"
)

type CompletionResponse struct {
	Status      string `json:"status"`
	BookingCode string `json:"booking_code"`
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
}

type OrphanedPaymentResponse struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
	BookingCode string `json:"booking_code"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reason      string `json:"reason"`
	Resolved    bool   `json:"resolved"`
	CreatedAt   string `json:"created_at"`
}

func (r *OrphanedPaymentResponse) FromModel(orphan model.OrphanedPayment) {
	r.ID = orphan.ID
	r.OrderID = orphan.OrderID
	r.PaymentID = orphan.PaymentID
	r.BookingCode = orphan.BookingCode
	r.Amount = orphan.Amount
	r.Currency = orphan.Currency
	r.Reason = orphan.Reason
	r.Resolved = orphan.Resolved
	r.CreatedAt = timezone.Format(orphan.CreatedAt, time.RFC3339)
}

type GetOrphanedPaymentsResponse struct {
	Payments  []OrphanedPaymentResponse `json:"payments"`
	TotalPage int                       `json:"total_page"`
	TotalData int                       `json:"total_data"`
}

func (r *GetOrphanedPaymentsResponse) FromModels(models []model.OrphanedPayment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]OrphanedPaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}

func NewOrderModel(order razorpay.Order, bookingCode, user string) model.Order {
	return model.Order{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		BookingCode: bookingCode,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Status:      model.StatusCreated,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func NewOrphanModel(order model.Order, paymentID, reason string) model.OrphanedPayment {
	return model.OrphanedPayment{
		ID:          uuid.NewString(),
		OrderID:     order.OrderID,
		PaymentID:   paymentID,
		BookingCode: order.BookingCode,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Reason:      reason,
		Resolved:    false,
		CreatedAt:   timezone.Now(),
	}
}
