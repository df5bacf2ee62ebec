package lifecycle

import (
	"testing"

	"storefront/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCompleted, true}, // skips allowed
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusRefunded, true},
		{models.OrderStatusCompleted, models.OrderStatusRefunded, true},
		{models.OrderStatusCompleted, models.OrderStatusProcessing, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusRefunded, models.OrderStatusCompleted, false},
		{models.OrderStatusPending, models.OrderStatusPending, false}, // no-op, not a transition
	}
	for _, tt := range tests {
		if got := CanTransitionStatus(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransitionStatus(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to models.PaymentStatus
		want     bool
	}{
		{models.PaymentStatusPending, models.PaymentStatusPaid, true},
		{models.PaymentStatusPaid, models.PaymentStatusPending, true},
		{models.PaymentStatusPaid, models.PaymentStatusFailed, true},
		{models.PaymentStatusFailed, models.PaymentStatusPaid, true},
		{models.PaymentStatusPaid, models.PaymentStatusRefunded, true},
		{models.PaymentStatusRefunded, models.PaymentStatusPaid, false},
		{models.PaymentStatusPending, models.PaymentStatusPending, false},
	}
	for _, tt := range tests {
		if got := CanTransitionPaymentStatus(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransitionPaymentStatus(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
