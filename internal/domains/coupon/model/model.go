package model

import (
	"time"

	"lodge/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "coupons"
	EntityName = "coupon"

	UsageTableName  = "coupon_usages"
	UsageEntityName = "coupon_usage"

	FieldID             = "id"
	FieldCode           = "code"
	FieldDiscountType   = "discount_type"
	FieldValue          = "value"
	FieldMaxDiscount    = "max_discount"
	FieldMinOrderAmount = "min_order_amount"
	FieldValidFrom      = "valid_from"
	FieldValidUntil     = "valid_until"
	FieldUsageLimit     = "usage_limit"
	FieldUserUsageLimit = "user_usage_limit"
	FieldUsageCount     = "usage_count"
	FieldActive         = "active"
	FieldPublic         = "public"

	FieldUsageCouponCode = "coupon_code"
	FieldUsageCustomerID = "customer_id"
)

const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

const DateLayout = "2006-01-02"

type Coupon struct {
	ID             string         `db:"id"`
	Code           string         `db:"code"`
	Description    string         `db:"description"`
	DiscountType   string         `db:"discount_type"`
	Value          int64          `db:"value"`
	MaxDiscount    int64          `db:"max_discount"`
	MinOrderAmount int64          `db:"min_order_amount"`
	ValidFrom      time.Time      `db:"valid_from"`
	ValidUntil     time.Time      `db:"valid_until"`
	Categories     pq.StringArray `db:"categories"`
	Rooms          pq.StringArray `db:"rooms"`
	ExcludedDates  pq.StringArray `db:"excluded_dates"`
	UsageLimit     int            `db:"usage_limit"`
	UserUsageLimit int            `db:"user_usage_limit"`
	UsageCount     int            `db:"usage_count"`
	Active         bool           `db:"active"`
	Public         bool           `db:"public"`
	model.Metadata
}

// Usage is one ledger entry. The ledger is append-only; usage_count on the
// coupon row changes only together with an append, in one transaction.
type Usage struct {
	ID          string    `db:"id"`
	CouponCode  string    `db:"coupon_code"`
	CustomerID  string    `db:"customer_id"`
	BookingCode string    `db:"booking_code"`
	Discount    int64     `db:"discount"`
	CreatedAt   time.Time `db:"created_at"`
}

func (c *Coupon) RemainingUsage() int {
	remaining := c.UsageLimit - c.UsageCount
	if remaining < 0 {
		return 0
	}

	return remaining
}

func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return t.After(c.ValidUntil)
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	return c.Active && !t.Before(c.ValidFrom) && !c.IsExpiredAt(t)
}

func (c *Coupon) ExcludesDate(day time.Time) bool {
	formatted := day.Format(DateLayout)

	for _, excluded := range c.ExcludedDates {
		if excluded == formatted {
			return true
		}
	}

	return false
}

// CalculateDiscount never exceeds the order amount; a percentage discount is
// additionally capped by MaxDiscount when set.
func (c *Coupon) CalculateDiscount(orderAmount int64) int64 {
	var discount int64

	switch c.DiscountType {
	case DiscountFixed:
		discount = c.Value
	case DiscountPercentage:
		discount = orderAmount * c.Value / 100

		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	}

	if discount > orderAmount {
		discount = orderAmount
	}

	return discount
}
