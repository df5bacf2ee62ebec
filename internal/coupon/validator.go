package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
)

// Reason classifies why a coupon was rejected.
type Reason string

const (
	ReasonNotFound     Reason = "not_found"
	ReasonBelowMinimum Reason = "below_minimum"
	ReasonExpired      Reason = "expired"
)

// CouponError is surfaced to the caller before any persistence happens.
type CouponError struct {
	Code   string
	Reason Reason
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}

// ErrCouponNotFound is what stores return when no active coupon matches.
var ErrCouponNotFound = errors.New("coupon not found")

// Store is the read-only coupon lookup the validator depends on.
type Store interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type Validator struct {
	store Store
	now   func() time.Time
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store, now: time.Now}
}

// Validate resolves a coupon code against an order subtotal and returns the
// discount amount. Validation is pure recomputation: applying the same code
// twice against the same subtotal yields the same discount, and the coupon
// document is never mutated.
func (v *Validator) Validate(ctx context.Context, code string, subtotal float64) (float64, *models.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	c, err := v.store.FindActiveByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return 0, nil, &CouponError{Code: normalized, Reason: ReasonNotFound}
		}
		return 0, nil, err
	}

	now := v.now()
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return 0, nil, &CouponError{Code: normalized, Reason: ReasonExpired}
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return 0, nil, &CouponError{Code: normalized, Reason: ReasonExpired}
	}

	if subtotal < c.MinOrderAmount {
		return 0, nil, &CouponError{Code: normalized, Reason: ReasonBelowMinimum}
	}

	return Discount(c, subtotal), c, nil
}

// Discount computes the discount amount for an already-validated coupon,
// clamped to [0, subtotal] so a fixed discount never exceeds the order.
func Discount(c *models.Coupon, subtotal float64) float64 {
	var d float64
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		d = subtotal * c.DiscountValue / 100
	case models.DiscountTypeFixed:
		d = c.DiscountValue
	}
	if d < 0 {
		return 0
	}
	if d > subtotal {
		return subtotal
	}
	return d
}
