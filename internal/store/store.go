package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

// OrderStore covers order-document writes. Creation happens exactly once per
// checkout; afterwards only the two status axes are mutated.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error
	// Cancel is the compensating write after a gateway failure: it flips
	// both axes in a single update.
	Cancel(ctx context.Context, id primitive.ObjectID) error
	SetItemCount(ctx context.Context, id primitive.ObjectID, count int) error
	List(ctx context.Context, page, limit int64) ([]models.Order, error)
	// ListPendingWithoutItems surfaces orders left behind by a partial
	// persistence failure so fulfillment can complete or cancel them.
	ListPendingWithoutItems(ctx context.Context) ([]models.Order, error)
}

// OrderItemStore persists order lines as one batched write.
type OrderItemStore interface {
	InsertMany(ctx context.Context, items []models.OrderItem) (int, error)
	ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error)
}

// CartStore is the per-customer cart collaborator.
type CartStore interface {
	GetCart(ctx context.Context, customerID primitive.ObjectID) ([]models.CartItem, error)
	AddItem(ctx context.Context, customerID, productID primitive.ObjectID, variantID *primitive.ObjectID, quantity int) error
	UpdateQuantity(ctx context.Context, customerID, itemID primitive.ObjectID, quantity int) error
	RemoveItem(ctx context.Context, customerID, itemID primitive.ObjectID) error
	Clear(ctx context.Context, customerID primitive.ObjectID) error
}

// ProductStore is read-only from the checkout core's perspective.
type ProductStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// CouponStore is read-only coupon lookup; implementations return
// coupon.ErrCouponNotFound when no active coupon matches.
type CouponStore interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
}
