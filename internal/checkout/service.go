package checkout

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/coupon"
	"storefront/internal/gateway"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

// Notifier enqueues a best-effort notification. Errors are swallowed at the
// call site; a failed enqueue never fails a checkout.
type Notifier interface {
	Enqueue(kind notify.Kind, recipient string, payload map[string]interface{}) error
}

// Input carries everything one checkout invocation needs. Cart and currency
// arrive as explicit arguments, never as ambient state.
type Input struct {
	CustomerID     primitive.ObjectID
	Customer       models.CustomerInfo
	PaymentMethod  string
	TransactionRef string
	CouponCode     string
	Notes          string
	Currency       string
}

// Result is what the UI layer consumes: the created order plus, for the
// gateway path, the hosted payment URL to redirect the customer to.
type Result struct {
	Order       *models.Order
	RedirectURL string
}

type Options struct {
	BaseCurrency    string
	GatewayCurrency string
	SuccessURL      string
	FailURL         string
	ManualMethods   []string
	GatewayMethods  []string
	AdminRecipient  string
}

// Service is the checkout orchestrator. Steps run strictly in order:
// validation, coupon, order write, item writes, payment path, cart clear,
// notifications. No step is retried automatically; a failed step aborts the
// rest of the invocation, except notifications which are isolated.
type Service struct {
	orders     store.OrderStore
	items      store.OrderItemStore
	carts      store.CartStore
	products   store.ProductStore
	coupons    *coupon.Validator
	gateway    gateway.Client
	notifier   Notifier
	converter  *pricing.Converter
	opts       Options
	validate   *validator.Validate
	manualSet  map[string]bool
	gatewaySet map[string]bool
}

func NewService(
	orders store.OrderStore,
	items store.OrderItemStore,
	carts store.CartStore,
	products store.ProductStore,
	coupons *coupon.Validator,
	gw gateway.Client,
	notifier Notifier,
	converter *pricing.Converter,
	opts Options,
) *Service {
	if opts.BaseCurrency == "" {
		opts.BaseCurrency = pricing.CurrencyBDT
	}
	if opts.GatewayCurrency == "" {
		opts.GatewayCurrency = opts.BaseCurrency
	}
	if opts.AdminRecipient == "" {
		opts.AdminRecipient = "admin"
	}
	if len(opts.GatewayMethods) == 0 {
		opts.GatewayMethods = []string{"gateway", "card"}
	}
	manualSet := make(map[string]bool, len(opts.ManualMethods))
	for _, m := range opts.ManualMethods {
		manualSet[m] = true
	}
	gatewaySet := make(map[string]bool, len(opts.GatewayMethods))
	for _, m := range opts.GatewayMethods {
		gatewaySet[m] = true
	}
	return &Service{
		orders:     orders,
		items:      items,
		carts:      carts,
		products:   products,
		coupons:    coupons,
		gateway:    gw,
		notifier:   notifier,
		converter:  converter,
		opts:       opts,
		validate:   newValidator(),
		manualSet:  manualSet,
		gatewaySet: gatewaySet,
	}
}

func (s *Service) isManualMethod(method string) bool {
	return s.manualSet[method]
}

// resolvedLine pairs a cart line with its frozen unit price.
type resolvedLine struct {
	item      models.CartItem
	product   *models.Product
	variant   *models.Variant
	unitPrice float64
}

// Checkout turns the customer's cart into a durable order.
func (s *Service) Checkout(ctx context.Context, in Input) (*Result, error) {
	if in.Currency == "" {
		in.Currency = s.opts.BaseCurrency
	}

	cart, err := s.carts.GetCart(ctx, in.CustomerID)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("store_error").Inc()
		return nil, &PersistenceError{Op: "load cart", Err: err}
	}
	if len(cart) == 0 {
		metrics.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	if err := s.validateInput(in); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("validation_failed").Inc()
		return nil, err
	}

	lines, subtotal, err := s.resolveLines(ctx, cart, in.Currency)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	var discount float64
	var appliedCoupon *models.Coupon
	if in.CouponCode != "" {
		// Coupon minimums and fixed amounts are base-currency values, so the
		// subtotal crosses into the base currency for validation and the
		// discount crosses back before it touches the settlement total.
		baseSubtotal := s.converter.Convert(subtotal, in.Currency, s.opts.BaseCurrency)
		baseDiscount, c, err := s.coupons.Validate(ctx, in.CouponCode, baseSubtotal)
		if err != nil {
			metrics.CheckoutsTotal.WithLabelValues("coupon_rejected").Inc()
			return nil, err
		}
		appliedCoupon = c
		discount = s.converter.Convert(baseDiscount, s.opts.BaseCurrency, in.Currency)
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	order, err := s.persistOrder(ctx, in, lines, total, discount, appliedCoupon)
	if err != nil {
		return nil, err
	}

	redirectURL, err := s.resolvePaymentPath(ctx, in, order, lines)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, in.CustomerID); err != nil {
		// The order is already durable; a stale cart is recoverable by the
		// customer, losing the order is not.
		log.WithFields(log.Fields{
			"order_id":    order.ID.Hex(),
			"customer_id": in.CustomerID.Hex(),
		}).Warn("cart clear failed after checkout: ", err)
	}

	s.notifyNewOrder(order)

	metrics.CheckoutsTotal.WithLabelValues("created").Inc()
	log.WithFields(log.Fields{
		"order_id":    order.ID.Hex(),
		"customer_id": in.CustomerID.Hex(),
		"total":       order.Total,
		"currency":    order.Currency,
		"method":      order.PaymentMethod,
	}).Info("order created")

	return &Result{Order: order, RedirectURL: redirectURL}, nil
}

func (s *Service) resolveLines(ctx context.Context, cart []models.CartItem, currency string) ([]resolvedLine, float64, error) {
	lines := make([]resolvedLine, 0, len(cart))
	subtotal := 0.0
	for _, item := range cart {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve cart line %s: %w", item.ProductID.Hex(), err)
		}
		variant := product.VariantByID(item.VariantID)
		price := pricing.UnitPrice(product, variant, currency, s.converter)
		lines = append(lines, resolvedLine{item: item, product: product, variant: variant, unitPrice: price})
		subtotal += price * float64(item.Quantity)
	}
	return lines, subtotal, nil
}

// persistOrder writes the order document, then its items as one batched
// dependent write. The two writes are not atomic: a short or failed item
// batch leaves the order pending with itemCount 0 and surfaces a
// PartialPersistenceError for manual reconciliation.
func (s *Service) persistOrder(ctx context.Context, in Input, lines []resolvedLine, total, discount float64, appliedCoupon *models.Coupon) (*models.Order, error) {
	order := &models.Order{
		CustomerID:    in.CustomerID,
		Customer:      in.Customer,
		Total:         total,
		Currency:      in.Currency,
		Discount:      discount,
		PaymentMethod: in.PaymentMethod,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         in.Notes,
	}
	if appliedCoupon != nil {
		order.CouponCode = appliedCoupon.Code
	}
	if s.isManualMethod(in.PaymentMethod) {
		ref := in.TransactionRef
		order.TransactionRef = &ref
	}

	orderID, err := s.orders.Create(ctx, order)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("store_error").Inc()
		return nil, &PersistenceError{Op: "create order", Err: err}
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		name := line.product.Name
		if line.variant != nil {
			name = name + " / " + line.variant.Name
		}
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: line.item.ProductID,
			VariantID: line.item.VariantID,
			Name:      name,
			Price:     line.unitPrice,
			Quantity:  line.item.Quantity,
		})
	}

	inserted, err := s.items.InsertMany(ctx, items)
	if err != nil || inserted < len(items) {
		metrics.CheckoutsTotal.WithLabelValues("partial_persistence").Inc()
		log.WithFields(log.Fields{
			"order_id": orderID.Hex(),
			"inserted": inserted,
			"expected": len(items),
		}).Error("order item batch incomplete, order needs manual reconciliation: ", err)
		return nil, &PartialPersistenceError{OrderID: orderID, Inserted: inserted, Expected: len(items), Err: err}
	}

	if err := s.orders.SetItemCount(ctx, orderID, inserted); err != nil {
		log.WithField("order_id", orderID.Hex()).Warn("item count update failed: ", err)
	} else {
		order.ItemCount = inserted
	}

	return order, nil
}

func (s *Service) notifyNewOrder(order *models.Order) {
	payload := map[string]interface{}{
		"orderId":  order.ID.Hex(),
		"total":    order.Total,
		"currency": order.Currency,
		"method":   order.PaymentMethod,
	}
	// Each enqueue is isolated so one failing notification cannot suppress
	// the other, and neither can fail the checkout.
	if err := s.notifier.Enqueue(notify.KindOrderConfirmation, order.Customer.Email, payload); err != nil {
		log.WithField("order_id", order.ID.Hex()).Warn("order confirmation not queued: ", err)
	}
	if err := s.notifier.Enqueue(notify.KindAdminNewOrder, s.opts.AdminRecipient, payload); err != nil {
		log.WithField("order_id", order.ID.Hex()).Warn("admin notification not queued: ", err)
	}
}
