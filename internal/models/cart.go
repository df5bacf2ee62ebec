package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a customer's pre-checkout basket. The cart is
// keyed per customer and deleted wholesale on successful checkout.
type CartItem struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID  `bson:"customerId" json:"customerId"`
	ProductID  primitive.ObjectID  `bson:"productId" json:"productId"`
	VariantID  *primitive.ObjectID `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Quantity   int                 `bson:"quantity" json:"quantity"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}
