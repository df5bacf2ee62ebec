package notify

import (
	"context"
	"time"
)

// Kind enumerates the outbound notification types.
type Kind string

const (
	KindOrderConfirmation Kind = "order-confirmation"
	KindAdminNewOrder     Kind = "admin-new-order"
	KindShipping          Kind = "shipping"
	KindDelivery          Kind = "delivery"
	KindCancellation      Kind = "cancellation"
	KindRefund            Kind = "refund"
	KindPaymentPaid       Kind = "payment-paid"
	KindPaymentFailed     Kind = "payment-failed"
)

// Event is one queued notification. Delivery is best-effort: a failed event
// is logged and counted, never surfaced to the request that produced it.
type Event struct {
	ID        string                 `json:"id"`
	Kind      Kind                   `json:"kind"`
	Recipient string                 `json:"recipient"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Sender delivers a single event.
type Sender interface {
	Send(ctx context.Context, event Event) error
}
