package lifecycle

import (
	"storefront/internal/models"
	"storefront/internal/notify"
)

// Administrators drive transitions, so the status axis accepts skips
// (pending straight to completed is fine). Terminal states accept nothing;
// the one exception is completed, which may still be refunded.
func CanTransitionStatus(from, to models.OrderStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case models.OrderStatusCancelled, models.OrderStatusRefunded:
		return false
	case models.OrderStatusCompleted:
		return to == models.OrderStatusRefunded
	default:
		return true
	}
}

// Payment status moves freely between pending, paid and failed; refunded is
// terminal. The status axis is independent: a shipped order may still be
// payment-pending under delayed verification.
func CanTransitionPaymentStatus(from, to models.PaymentStatus) bool {
	if from == to {
		return false
	}
	if from == models.PaymentStatusRefunded {
		return false
	}
	return true
}

// statusNotifications maps a landed status to its outbound notification.
// pending and processing land silently.
var statusNotifications = map[models.OrderStatus]notify.Kind{
	models.OrderStatusShipped:   notify.KindShipping,
	models.OrderStatusCompleted: notify.KindDelivery,
	models.OrderStatusCancelled: notify.KindCancellation,
	models.OrderStatusRefunded:  notify.KindRefund,
}

var paymentNotifications = map[models.PaymentStatus]notify.Kind{
	models.PaymentStatusPaid:     notify.KindPaymentPaid,
	models.PaymentStatusFailed:   notify.KindPaymentFailed,
	models.PaymentStatusRefunded: notify.KindRefund,
}
