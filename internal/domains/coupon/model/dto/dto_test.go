package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/model/dto"
	"lodge/shared/timezone"
)

func validRequest() dto.CreateCouponRequest {
	return dto.CreateCouponRequest{
		Code:         "WELCOME20",
		DiscountType: model.DiscountPercentage,
		Value:        20,
		ValidFrom:    "2026-01-01",
		ValidUntil:   "2026-06-30",
		UsageLimit:   100,
	}
}

func TestCreateCouponRequest_ToModel(t *testing.T) {
	req := validRequest()

	coupon, err := req.ToModel("staff-1")

	assert.NoError(t, err)
	assert.Equal(t, "WELCOME20", coupon.Code)
	assert.True(t, coupon.Active)
	assert.True(t, coupon.Public)
	assert.Equal(t, "staff-1", coupon.CreatedBy)

	// The named expiry day itself is still valid.
	lastDay, err := timezone.Parse(model.DateLayout, "2026-06-30")
	assert.NoError(t, err)
	assert.False(t, coupon.IsExpiredAt(lastDay.Add(23*time.Hour)))

	dayAfter, err := timezone.Parse(model.DateLayout, "2026-07-01")
	assert.NoError(t, err)
	assert.True(t, coupon.IsExpiredAt(dayAfter))
}

func TestCreateCouponRequest_ToModelRejectsPercentageOver100(t *testing.T) {
	req := validRequest()
	req.Value = 120

	_, err := req.ToModel("staff-1")

	assert.Error(t, err)
}

func TestCreateCouponRequest_ToModelRejectsInvertedWindow(t *testing.T) {
	req := validRequest()
	req.ValidFrom = "2026-06-30"
	req.ValidUntil = "2026-01-01"

	_, err := req.ToModel("staff-1")

	assert.Error(t, err)
}

func TestExtendCouponRequest_ParseValidUntil(t *testing.T) {
	req := dto.ExtendCouponRequest{ValidUntil: "2026-12-31"}

	until, err := req.ParseValidUntil()

	assert.NoError(t, err)

	newYear, parseErr := timezone.Parse(model.DateLayout, "2027-01-01")
	assert.NoError(t, parseErr)
	assert.True(t, until.Before(newYear))
	assert.True(t, until.After(newYear.Add(-time.Minute)))
}
