package lifecycle

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/store"
)

var (
	ErrUnknownStatus     = errors.New("unknown status value")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Notifier matches the dispatcher's enqueue surface.
type Notifier interface {
	Enqueue(kind notify.Kind, recipient string, payload map[string]interface{}) error
}

// UpdateResult reports an admin transition. The status write is the source
// of truth; a notification problem comes back as a warning, never as a
// rolled-back write.
type UpdateResult struct {
	Order   *models.Order
	Changed bool
	Warning string
}

// Service applies administrator-initiated transitions on the two orthogonal
// status axes and fires at most one notification per detected change.
type Service struct {
	orders   store.OrderStore
	notifier Notifier
}

func NewService(orders store.OrderStore, notifier Notifier) *Service {
	return &Service{orders: orders, notifier: notifier}
}

// UpdateOrderStatus moves an order to the given status. Re-setting the
// current status is a no-op and does not re-notify.
func (s *Service) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*UpdateResult, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return &UpdateResult{Order: order, Changed: false}, nil
	}
	if !CanTransitionStatus(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	previous := order.Status
	order.Status = status
	metrics.OrderStatusUpdates.WithLabelValues("status", string(status)).Inc()

	log.WithFields(log.Fields{
		"order_id": id.Hex(),
		"from":     previous,
		"to":       status,
	}).Info("order status updated")

	result := &UpdateResult{Order: order, Changed: true}
	if kind, ok := statusNotifications[status]; ok {
		result.Warning = s.notifyTransition(kind, order)
	}
	return result, nil
}

// UpdatePaymentStatus moves the payment axis independently of status. No
// auto-advance happens when payment lands on paid while the order is still
// pending; fulfillment advances status on its own.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*UpdateResult, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == status {
		return &UpdateResult{Order: order, Changed: false}, nil
	}
	if !CanTransitionPaymentStatus(order.PaymentStatus, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.PaymentStatus, status)
	}

	if err := s.orders.SetPaymentStatus(ctx, id, status); err != nil {
		return nil, err
	}
	previous := order.PaymentStatus
	order.PaymentStatus = status
	metrics.OrderStatusUpdates.WithLabelValues("payment", string(status)).Inc()

	log.WithFields(log.Fields{
		"order_id": id.Hex(),
		"from":     previous,
		"to":       status,
	}).Info("payment status updated")

	result := &UpdateResult{Order: order, Changed: true}
	if kind, ok := paymentNotifications[status]; ok {
		result.Warning = s.notifyTransition(kind, order)
	}
	return result, nil
}

func (s *Service) notifyTransition(kind notify.Kind, order *models.Order) string {
	err := s.notifier.Enqueue(kind, order.Customer.Email, map[string]interface{}{
		"orderId":       order.ID.Hex(),
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
	})
	if err != nil {
		log.WithFields(log.Fields{"order_id": order.ID.Hex(), "kind": kind}).Warn("transition notification not queued: ", err)
		return fmt.Sprintf("status saved, but %s notification could not be queued", kind)
	}
	return ""
}
