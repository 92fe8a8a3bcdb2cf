package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	"lodge/internal/domains/booking/service"
	couponModel "lodge/internal/domains/coupon/model"
	couponServiceMocks "lodge/internal/domains/coupon/service/mocks"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	"lodge/shared/constant"
	"lodge/shared/failure"

	kafkaGo "github.com/segmentio/kafka-go"
)

// Cache and producer are exercised on fire-and-forget goroutines; no-op stubs
// keep the tests free of cross-goroutine expectations.
type noopCache struct{}

func (noopCache) Save(context.Context, string, any, int) error { return nil }
func (noopCache) Get(context.Context, string, any) error { return nil }
func (noopCache) Delete(context.Context, string) error { return nil }
func (noopCache) Clear(context.Context, string) error { return nil }
func (noopCache) AcquireLock(context.Context, string, int) (bool, error) { return true, nil }
func (noopCache) ReleaseLock(context.Context, string) error { return nil }

type noopProducer struct{}

func (noopProducer) SendMessages(context.Context, string, ...kafka.Message) error { return nil }
func (noopProducer) Consume(context.Context, string, string, func(kafkaGo.Message)) {}
func (noopProducer) Reader(string, string) *kafkaGo.Reader { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.CodePrefix = "BK"
	cfg.Booking.Currency = "INR"
	cfg.Booking.TaxPercent = 12
	cfg.Booking.CodeMaxRetries = 5

	return cfg
}

func customerContext(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func deluxeRoom() roomModel.Room {
	return roomModel.Room{
		ID:            "room-1",
		Number:        "204",
		Name:          "Deluxe King",
		Category:      "deluxe",
		PricePerNight: 250000,
		MaxOccupancy:  3,
		Active:        true,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2099-03-10",
		CheckOut: "2099-03-12",
		Adults:   2,
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(deluxeRoom(), nil)

	mockRepo.EXPECT().
		HasConflict(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		Return(false, nil)

	var persisted model.Booking

	mockRepo.EXPECT().
		CreateWithGuests(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking, _ []model.Guest) error {
			persisted = booking

			return nil
		})

	res, err := svc.Create(customerContext("customer-1"), createRequest())

	assert.NoError(t, err)

	// 2 nights at 2500.00 plus 12% tax.
	assert.Equal(t, int64(500000), res.Subtotal)
	assert.Equal(t, int64(60000), res.Taxes)
	assert.Equal(t, int64(0), res.Discount)
	assert.Equal(t, int64(560000), res.TotalAmount)
	assert.Equal(t, 2, res.Nights)

	assert.Equal(t, model.StatusConfirmed, persisted.BookingStatus)
	assert.Equal(t, model.PaymentPending, persisted.PaymentStatus)
	assert.Equal(t, "customer-1", persisted.CustomerID)
	assert.Equal(t, "BK", persisted.Code[:2])
}

func TestBookingService_CreateWithCoupon(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(deluxeRoom(), nil)

	mockRepo.EXPECT().
		HasConflict(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		Return(false, nil)

	mockCouponSvc.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		Return(couponModel.Coupon{
			Code:         "SAVE20",
			DiscountType: couponModel.DiscountPercentage,
			Value:        20,
			MaxDiscount:  50000,
		}, nil)

	mockRepo.EXPECT().
		CreateWithGuests(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	req := createRequest()
	req.CouponCode = "SAVE20"

	res, err := svc.Create(customerContext("customer-1"), req)

	assert.NoError(t, err)

	// 20% of 5000.00 is 1000.00, capped at 500.00.
	assert.Equal(t, int64(50000), res.Discount)
	assert.Equal(t, int64(510000), res.TotalAmount)
}

func TestBookingService_CreateRejectsEmptyStay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	req := createRequest()
	req.CheckOut = req.CheckIn

	_, err := svc.Create(customerContext("customer-1"), req)

	assert.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestBookingService_CreateRejectsPastCheckIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	req := createRequest()
	req.CheckIn = "2020-01-10"
	req.CheckOut = "2020-01-12"

	_, err := svc.Create(customerContext("customer-1"), req)

	assert.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestBookingService_CreateRoomConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(deluxeRoom(), nil)

	mockRepo.EXPECT().
		HasConflict(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		Return(true, nil)

	_, err := svc.Create(customerContext("customer-1"), createRequest())

	assert.ErrorIs(t, err, model.ErrRoomUnavailable)
}

func TestBookingService_CreateExceedsOccupancy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(deluxeRoom(), nil)

	req := createRequest()
	req.Adults = 3
	req.Children = 2

	_, err := svc.Create(customerContext("customer-1"), req)

	assert.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestBookingService_CreateRetriesOnCodeCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, noopProducer{}, mockOtel)

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(deluxeRoom(), nil)

	mockRepo.EXPECT().
		HasConflict(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		Return(false, nil)

	first := mockRepo.EXPECT().
		CreateWithGuests(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(repository.ErrCodeTaken)

	mockRepo.EXPECT().
		CreateWithGuests(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		After(first)

	res, err := svc.Create(customerContext("customer-1"), createRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(560000), res.TotalAmount)
}

// capturingProducer hands published events back to the test over a channel so
// fire-and-forget publication can be observed without gomock expectations.
type capturingProducer struct{ events chan kafka.Message }

func (p capturingProducer) SendMessages(_ context.Context, _ string, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		p.events <- msg
	}

	return nil
}
func (capturingProducer) Consume(context.Context, string, string, func(kafkaGo.Message)) {}
func (capturingProducer) Reader(string, string) *kafkaGo.Reader { return nil }

func TestBookingService_CancelPublishesFromTransitionSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCouponSvc := couponServiceMocks.NewMockCoupon(ctrl)
	producer := capturingProducer{events: make(chan kafka.Message, 1)}

	svc := service.New(mockRepo, mockRoomRepo, mockCouponSvc, testConfig(), noopCache{}, producer, mocks.NewOtel())

	confirmed := model.Booking{
		ID:            "booking-1",
		Code:          "BK2603104F7Q",
		RoomID:        "room-1",
		CustomerID:    "customer-1",
		BookingStatus: model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		TotalAmount:   560000,
	}

	// A single load feeds both the state machine and the published event.
	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(confirmed, nil).
		Times(1)

	mockRepo.EXPECT().
		UpdateStatusIf(gomock.Any(), "BK2603104F7Q", gomock.Any(), gomock.Any()).
		Return(true, nil)

	err := svc.Cancel(customerContext("customer-1"), "BK2603104F7Q", dto.CancelBookingRequest{Reason: "change of plans"})
	assert.NoError(t, err)

	select {
	case msg := <-producer.events:
		event, ok := msg.Value.(model.Event)
		assert.True(t, ok)
		assert.Equal(t, model.EventBookingCancelled, event.Type)
		assert.Equal(t, "BK2603104F7Q", event.BookingCode)
		assert.Equal(t, model.StatusCancelled, event.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled event was not published")
	}
}
