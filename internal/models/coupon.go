package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is read-only from the checkout core's perspective. Codes are stored
// uppercased so lookups stay case-insensitive.
type Coupon struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	DiscountType   string             `bson:"discountType" json:"discountType"`
	DiscountValue  float64            `bson:"discountValue" json:"discountValue"`
	MinOrderAmount float64            `bson:"minOrderAmount" json:"minOrderAmount"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	ValidFrom      *time.Time         `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	ValidTo        *time.Time         `bson:"validTo,omitempty" json:"validTo,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
