package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ExternalID   string             `bson:"externalId,omitempty" json:"externalId,omitempty"`
	PriceBDT     *float64           `bson:"priceBdt,omitempty" json:"priceBdt,omitempty"`
	SalePriceBDT *float64           `bson:"salePriceBdt,omitempty" json:"salePriceBdt,omitempty"`
	PriceUSD     *float64           `bson:"priceUsd,omitempty" json:"priceUsd,omitempty"`
	SalePriceUSD *float64           `bson:"salePriceUsd,omitempty" json:"salePriceUsd,omitempty"`
	Variants     []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	IsDeleted    bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Variant is a purchasable variation of a product. Its price fields override
// the product-level fields when set.
type Variant struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	PriceBDT     *float64           `bson:"priceBdt,omitempty" json:"priceBdt,omitempty"`
	SalePriceBDT *float64           `bson:"salePriceBdt,omitempty" json:"salePriceBdt,omitempty"`
	PriceUSD     *float64           `bson:"priceUsd,omitempty" json:"priceUsd,omitempty"`
	SalePriceUSD *float64           `bson:"salePriceUsd,omitempty" json:"salePriceUsd,omitempty"`
}

// VariantByID returns the matching variant, or nil when id is absent.
func (p *Product) VariantByID(id *primitive.ObjectID) *Variant {
	if id == nil {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == *id {
			return &p.Variants[i]
		}
	}
	return nil
}
