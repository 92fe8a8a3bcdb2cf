package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/coupon/model"
	"lodge/shared/timezone"
)

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name        string
		coupon      model.Coupon
		orderAmount int64
		want        int64
	}{
		{
			name:        "fixed amount",
			coupon:      model.Coupon{DiscountType: model.DiscountFixed, Value: 50000},
			orderAmount: 500000,
			want:        50000,
		},
		{
			name:        "fixed amount capped at order total",
			coupon:      model.Coupon{DiscountType: model.DiscountFixed, Value: 80000},
			orderAmount: 60000,
			want:        60000,
		},
		{
			name:        "percentage",
			coupon:      model.Coupon{DiscountType: model.DiscountPercentage, Value: 10},
			orderAmount: 500000,
			want:        50000,
		},
		{
			name:        "percentage capped by max discount",
			coupon:      model.Coupon{DiscountType: model.DiscountPercentage, Value: 20, MaxDiscount: 50000},
			orderAmount: 500000,
			want:        50000,
		},
		{
			name:        "percentage without max discount",
			coupon:      model.Coupon{DiscountType: model.DiscountPercentage, Value: 20},
			orderAmount: 500000,
			want:        100000,
		},
		{
			name:        "full discount",
			coupon:      model.Coupon{DiscountType: model.DiscountPercentage, Value: 100},
			orderAmount: 500000,
			want:        500000,
		},
		{
			name:        "unknown type discounts nothing",
			coupon:      model.Coupon{DiscountType: "mystery", Value: 50},
			orderAmount: 500000,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.CalculateDiscount(tt.orderAmount))
		})
	}
}

func TestRemainingUsage(t *testing.T) {
	coupon := model.Coupon{UsageLimit: 100, UsageCount: 40}
	assert.Equal(t, 60, coupon.RemainingUsage())

	exhausted := model.Coupon{UsageLimit: 100, UsageCount: 100}
	assert.Equal(t, 0, exhausted.RemainingUsage())

	overdrawn := model.Coupon{UsageLimit: 100, UsageCount: 101}
	assert.Equal(t, 0, overdrawn.RemainingUsage())
}

func TestIsValidAt(t *testing.T) {
	now := timezone.Now()

	coupon := model.Coupon{
		Active:     true,
		ValidFrom:  now.Add(-24 * time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
	}

	assert.True(t, coupon.IsValidAt(now))
	assert.False(t, coupon.IsValidAt(now.Add(-48*time.Hour)))
	assert.False(t, coupon.IsValidAt(now.Add(48*time.Hour)))

	inactive := coupon
	inactive.Active = false
	assert.False(t, inactive.IsValidAt(now))
}

func TestExcludesDate(t *testing.T) {
	coupon := model.Coupon{ExcludedDates: []string{"2026-12-25", "2026-12-31"}}

	christmas, err := timezone.Parse(model.DateLayout, "2026-12-25")
	assert.NoError(t, err)
	assert.True(t, coupon.ExcludesDate(christmas))

	boxing, err := timezone.Parse(model.DateLayout, "2026-12-26")
	assert.NoError(t, err)
	assert.False(t, coupon.ExcludesDate(boxing))
}
