package checkout

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"storefront/internal/gateway"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

// resolvePaymentPath finishes checkout along one of the two payment paths.
// Manual verification stores nothing beyond the reference already captured
// at order creation; the gateway path opens a hosted payment session and,
// on failure, cancels the just-created order before re-raising the error.
func (s *Service) resolvePaymentPath(ctx context.Context, in Input, order *models.Order, lines []resolvedLine) (string, error) {
	if s.isManualMethod(in.PaymentMethod) {
		// Payment stays pending until an administrator verifies the
		// customer-supplied reference.
		return "", nil
	}

	session, err := s.gateway.CreatePaymentRequest(ctx, s.buildGatewayRequest(in, order, lines))
	if err != nil {
		s.compensate(ctx, order)
		metrics.CheckoutsTotal.WithLabelValues("gateway_failed").Inc()
		return "", &GatewayError{OrderID: order.ID, Err: err}
	}

	return session.PaymentURL, nil
}

func (s *Service) buildGatewayRequest(in Input, order *models.Order, lines []resolvedLine) gateway.PaymentRequest {
	amount := s.converter.Convert(order.Total, order.Currency, s.opts.GatewayCurrency)
	req := gateway.PaymentRequest{
		OrderID:       order.ID.Hex(),
		Amount:        s.converter.Round(amount, s.opts.GatewayCurrency),
		Currency:      s.opts.GatewayCurrency,
		CustomerName:  in.Customer.Name,
		CustomerEmail: in.Customer.Email,
		CustomerPhone: in.Customer.Phone,
		SuccessURL:    s.opts.SuccessURL,
		FailURL:       s.opts.FailURL,
	}

	// A single-line cart with an external catalog id gets a product-based
	// session so the gateway can display product and quantity.
	if len(lines) == 1 && lines[0].product.ExternalID != "" {
		req.ProductRef = lines[0].product.ExternalID
		req.Quantity = lines[0].item.Quantity
		return req
	}

	req.Description = fmt.Sprintf("Order with %d items", len(lines))
	return req
}

// compensate flips the order to cancelled/failed after a gateway failure so
// it never lingers as awaiting-payment. A failed compensation is logged for
// reconciliation; the gateway error still surfaces either way.
func (s *Service) compensate(ctx context.Context, order *models.Order) {
	if err := s.orders.Cancel(ctx, order.ID); err != nil {
		log.WithField("order_id", order.ID.Hex()).Error("compensating cancellation failed: ", err)
		return
	}
	order.Status = models.OrderStatusCancelled
	order.PaymentStatus = models.PaymentStatusFailed
	log.WithField("order_id", order.ID.Hex()).Info("order cancelled after gateway failure")
}
