package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	couponMocks "lodge/internal/domains/coupon/mocks"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/service"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/timezone"
)

func validCoupon() model.Coupon {
	now := timezone.Now()

	return model.Coupon{
		ID:           "coupon-id-1",
		Code:         "WELCOME20",
		DiscountType: model.DiscountPercentage,
		Value:        20,
		MaxDiscount:  50000,
		ValidFrom:    now.Add(-24 * time.Hour),
		ValidUntil:   now.Add(24 * time.Hour),
		UsageLimit:   100,
		Active:       true,
	}
}

func TestCouponService_Validate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := couponMocks.NewMockCoupon(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	input := service.ValidateInput{
		Code:         "WELCOME20",
		CustomerID:   "customer-1",
		OrderAmount:  500000,
		RoomCategory: "deluxe",
		RoomID:       "room-1",
		BookingDate:  timezone.Now().Add(72 * time.Hour),
	}

	tests := []struct {
		name       string
		setupMock  func()
		wantReason string
	}{
		{
			name: "valid coupon",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCoupon(), nil)
			},
		},
		{
			name: "unknown code",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Coupon{}, nil)
			},
			wantReason: model.ReasonNotFound,
		},
		{
			name: "inactive coupon",
			setupMock: func() {
				coupon := validCoupon()
				coupon.Active = false

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonInactive,
		},
		{
			name: "not valid yet",
			setupMock: func() {
				coupon := validCoupon()
				coupon.ValidFrom = timezone.Now().Add(24 * time.Hour)
				coupon.ValidUntil = timezone.Now().Add(96 * time.Hour)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonNotYetValid,
		},
		{
			name: "expired coupon",
			setupMock: func() {
				coupon := validCoupon()
				coupon.ValidFrom = timezone.Now().Add(-96 * time.Hour)
				coupon.ValidUntil = timezone.Now().Add(-24 * time.Hour)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonExpired,
		},
		{
			name: "usage limit reached",
			setupMock: func() {
				coupon := validCoupon()
				coupon.UsageCount = coupon.UsageLimit

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonLimitReached,
		},
		{
			name: "order below minimum",
			setupMock: func() {
				coupon := validCoupon()
				coupon.MinOrderAmount = 600000

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonMinOrder,
		},
		{
			name: "per-customer limit reached",
			setupMock: func() {
				coupon := validCoupon()
				coupon.UserUsageLimit = 1

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)

				mockRepo.EXPECT().
					CountUsageByCustomer(gomock.Any(), "WELCOME20", "customer-1").
					Return(1, nil)
			},
			wantReason: model.ReasonUserLimit,
		},
		{
			name: "wrong room category",
			setupMock: func() {
				coupon := validCoupon()
				coupon.Categories = []string{"suite"}

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonCategory,
		},
		{
			name: "wrong room",
			setupMock: func() {
				coupon := validCoupon()
				coupon.Rooms = []string{"room-99"}

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonRoom,
		},
		{
			name: "excluded date",
			setupMock: func() {
				coupon := validCoupon()
				coupon.ExcludedDates = []string{input.BookingDate.Format(model.DateLayout)}

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(coupon, nil)
			},
			wantReason: model.ReasonDateExcluded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.Validate(context.Background(), input)

			if tt.wantReason == "" {
				assert.NoError(t, err)

				return
			}

			var couponErr *model.Error

			assert.ErrorAs(t, err, &couponErr)
			assert.Equal(t, tt.wantReason, couponErr.Reason)
		})
	}
}

func TestCouponService_ValidateLimitBeatsMinOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := couponMocks.NewMockCoupon(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	// Both checks fail; the first failing check in order wins.
	coupon := validCoupon()
	coupon.UsageCount = coupon.UsageLimit
	coupon.MinOrderAmount = 600000

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(coupon, nil)

	_, err := svc.Validate(context.Background(), service.ValidateInput{Code: "WELCOME20", OrderAmount: 100})

	var couponErr *model.Error

	assert.ErrorAs(t, err, &couponErr)
	assert.Equal(t, model.ReasonLimitReached, couponErr.Reason)
}
