package coupons

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the user holds no active coupon with the code.
	ErrNotFound = errors.New("coupon not found")
	// ErrExpired is returned by Validate once the expiry has passed.
	ErrExpired = errors.New("coupon expired")
)

// Coupon is a percentage discount owned by one user.
type Coupon struct {
	ID                 string    `json:"_id"`
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discountPercentage"`
	ExpirationDate     time.Time `json:"expirationDate"`
	IsActive           bool      `json:"isActive"`
	UserID             string    `json:"userId"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Expired reports whether the coupon is past its expiry at now.
func (c Coupon) Expired(now time.Time) bool {
	return !now.Before(c.ExpirationDate)
}

// Repository persists coupons. Each user holds at most one coupon.
type Repository interface {
	FindActiveByUser(ctx context.Context, userID string) (Coupon, error)
	FindActiveByCode(ctx context.Context, userID, code string) (Coupon, error)
	// Replace stores c as the user's coupon, discarding any previous one.
	Replace(ctx context.Context, c Coupon) error
	Deactivate(ctx context.Context, userID, code string) error
}
