package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CustomerInfo is the contact snapshot copied onto the order at creation
// time. It is never updated afterwards, even if the account profile changes.
type CustomerInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// Order is the persisted order document. Status and PaymentStatus are the
// only fields mutated after creation.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID     primitive.ObjectID `bson:"customerId" json:"customerId"`
	Customer       CustomerInfo       `bson:"customer" json:"customer"`
	Total          float64            `bson:"total" json:"total"`
	Currency       string             `bson:"currency" json:"currency"`
	Discount       float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	CouponCode     string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	TransactionRef *string            `bson:"transactionRef,omitempty" json:"transactionRef,omitempty"`
	Status         OrderStatus        `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ItemCount      int                `bson:"itemCount" json:"itemCount"`
	Delivery       *DeliveryInfo      `bson:"delivery,omitempty" json:"delivery,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeliveryInfo is filled in by fulfillment after purchase.
type DeliveryInfo struct {
	Platform     string `bson:"platform,omitempty" json:"platform,omitempty"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Secret       string `bson:"secret,omitempty" json:"secret,omitempty"`
}

// OrderItem is a single line of an order. Price is frozen at order-creation
// time and never recomputed from the catalog.
type OrderItem struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderID   primitive.ObjectID  `bson:"orderId" json:"orderId"`
	ProductID primitive.ObjectID  `bson:"productId" json:"productId"`
	VariantID *primitive.ObjectID `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Price     float64             `bson:"price" json:"price"`
	Quantity  int                 `bson:"quantity" json:"quantity"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the known payment statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
