package model

import "lodge/shared/failure"

const (
	ReasonNotFound     = "coupon_not_found"
	ReasonInactive     = "coupon_inactive"
	ReasonNotYetValid  = "coupon_not_yet_valid"
	ReasonExpired      = "coupon_expired"
	ReasonLimitReached = "coupon_limit_reached"
	ReasonMinOrder     = "coupon_min_order_not_met"
	ReasonUserLimit    = "coupon_user_limit_reached"
	ReasonCategory     = "coupon_not_valid_for_category"
	ReasonRoom         = "coupon_not_valid_for_room"
	ReasonDateExcluded = "coupon_not_valid_on_date"
)

// Error carries a machine-readable reason code for user messaging.
type Error struct {
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return failure.UnprocessableEntity(e.Message)
}

func NewError(reason, message string) *Error {
	return &Error{Reason: reason, Message: message}
}
