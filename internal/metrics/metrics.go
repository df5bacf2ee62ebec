package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutsTotal tracks checkout attempts by outcome.
	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Total number of checkout attempts by outcome",
		},
		[]string{"outcome"},
	)

	// NotificationsTotal tracks notification sends by kind and outcome.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification deliveries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// NotificationsDropped counts events dropped because the queue was full.
	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Total number of notifications dropped due to a full queue",
		},
	)

	// GatewayBreakerState tracks the payment gateway circuit breaker state
	// (0=closed, 1=open, 2=half-open).
	GatewayBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_circuit_breaker_state",
			Help: "Payment gateway circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)

	// OrderStatusUpdates tracks admin lifecycle transitions by axis and target.
	OrderStatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_updates_total",
			Help: "Total number of admin order status updates by axis and target value",
		},
		[]string{"axis", "target"},
	)
)
