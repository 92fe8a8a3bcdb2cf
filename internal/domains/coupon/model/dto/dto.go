package dto

import (
	"time"

	"lodge/internal/domains/coupon/model"
	"lodge/shared"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

type CreateCouponRequest struct {
	Code           string   `json:"code"             validate:"required,alphanum,uppercase,max=20"`
	Description    string   `json:"description"      validate:"omitempty,max=255"`
	DiscountType   string   `json:"discount_type"    validate:"required,oneof=fixed percentage"`
	Value          int64    `json:"value"            validate:"required,gt=0"`
	MaxDiscount    int64    `json:"max_discount"     validate:"omitempty,gte=0"`
	MinOrderAmount int64    `json:"min_order_amount" validate:"omitempty,gte=0"`
	ValidFrom      string   `json:"valid_from"       validate:"required,datetime=2006-01-02"`
	ValidUntil     string   `json:"valid_until"      validate:"required,datetime=2006-01-02"`
	Categories     []string `json:"categories"       validate:"omitempty,dive,oneof=standard deluxe suite executive"`
	Rooms          []string `json:"rooms"            validate:"omitempty,dive,uuid"`
	ExcludedDates  []string `json:"excluded_dates"   validate:"omitempty,dive,datetime=2006-01-02"`
	UsageLimit     int      `json:"usage_limit"      validate:"required,gt=0"`
	UserUsageLimit int      `json:"user_usage_limit" validate:"omitempty,gt=0"`
	Public         *bool    `json:"public"           validate:"omitempty"`
}

func (c *CreateCouponRequest) ToModel(user string) (model.Coupon, error) {
	validFrom, err := timezone.Parse(model.DateLayout, c.ValidFrom)
	if err != nil {
		return model.Coupon{}, failure.BadRequestFromString("valid_from must use YYYY-MM-DD format")
	}

	validUntil, err := timezone.Parse(model.DateLayout, c.ValidUntil)
	if err != nil {
		return model.Coupon{}, failure.BadRequestFromString("valid_until must use YYYY-MM-DD format")
	}

	if !validUntil.After(validFrom) {
		return model.Coupon{}, failure.BadRequestFromString("valid_until must be after valid_from")
	}

	if c.DiscountType == model.DiscountPercentage && c.Value > 100 {
		return model.Coupon{}, failure.BadRequestFromString("percentage value must not exceed 100")
	}

	public := true
	if c.Public != nil {
		public = *c.Public
	}

	// valid_until is inclusive of the named day.
	validUntil = validUntil.Add(24*time.Hour - time.Nanosecond)

	return model.Coupon{
		ID:             uuid.NewString(),
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		Value:          c.Value,
		MaxDiscount:    c.MaxDiscount,
		MinOrderAmount: c.MinOrderAmount,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		Categories:     c.Categories,
		Rooms:          c.Rooms,
		ExcludedDates:  c.ExcludedDates,
		UsageLimit:     c.UsageLimit,
		UserUsageLimit: c.UserUsageLimit,
		Active:         true,
		Public:         public,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type ExtendCouponRequest struct {
	ValidUntil string `json:"valid_until" validate:"required,datetime=2006-01-02"`
}

func (e *ExtendCouponRequest) ParseValidUntil() (time.Time, error) {
	validUntil, err := timezone.Parse(model.DateLayout, e.ValidUntil)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("valid_until must use YYYY-MM-DD format")
	}

	return validUntil.Add(24*time.Hour - time.Nanosecond), nil
}

type CouponResponse struct {
	ID             string   `json:"id"`
	Code           string   `json:"code"`
	Description    string   `json:"description"`
	DiscountType   string   `json:"discount_type"`
	Value          int64    `json:"value"`
	MaxDiscount    int64    `json:"max_discount"`
	MinOrderAmount int64    `json:"min_order_amount"`
	ValidFrom      string   `json:"valid_from"`
	ValidUntil     string   `json:"valid_until"`
	Categories     []string `json:"categories"`
	Rooms          []string `json:"rooms"`
	ExcludedDates  []string `json:"excluded_dates"`
	UsageLimit     int      `json:"usage_limit"`
	UserUsageLimit int      `json:"user_usage_limit"`
	UsageCount     int      `json:"usage_count"`
	RemainingUsage int      `json:"remaining_usage"`
	Active         bool     `json:"active"`
	Public         bool     `json:"public"`
}

func (r *CouponResponse) FromModel(model model.Coupon) {
	r.ID = model.ID
	r.Code = model.Code
	r.Description = model.Description
	r.DiscountType = model.DiscountType
	r.Value = model.Value
	r.MaxDiscount = model.MaxDiscount
	r.MinOrderAmount = model.MinOrderAmount
	r.ValidFrom = model.ValidFrom.Format(time.RFC3339)
	r.ValidUntil = model.ValidUntil.Format(time.RFC3339)
	r.Categories = model.Categories
	r.Rooms = model.Rooms
	r.ExcludedDates = model.ExcludedDates
	r.UsageLimit = model.UsageLimit
	r.UserUsageLimit = model.UserUsageLimit
	r.UsageCount = model.UsageCount
	r.RemainingUsage = model.RemainingUsage()
	r.Active = model.Active
	r.Public = model.Public
}

type GetCouponsResponse struct {
	Coupons   []CouponResponse `json:"coupons"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetCouponsResponse) FromModels(models []model.Coupon, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Coupons = make([]CouponResponse, len(models))
	for i, mod := range models {
		r.Coupons[i].FromModel(mod)
	}
}
