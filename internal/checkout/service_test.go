package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/coupon"
	"storefront/internal/gateway"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/pricing"
)

func fptr(v float64) *float64 { return &v }

type fixture struct {
	orders   *mockOrderStore
	items    *mockItemStore
	carts    *mockCartStore
	products *mockProductStore
	coupons  *mockCouponStore
	gateway  *mockGateway
	notifier *mockNotifier
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		orders:   &mockOrderStore{},
		items:    &mockItemStore{},
		carts:    &mockCartStore{},
		products: &mockProductStore{products: map[primitive.ObjectID]*models.Product{}},
		coupons:  &mockCouponStore{err: coupon.ErrCouponNotFound},
		gateway:  &mockGateway{session: &gateway.PaymentSession{PaymentURL: "https://pay.example.com/s/1"}},
		notifier: &mockNotifier{},
	}
	f.svc = NewService(
		f.orders, f.items, f.carts, f.products,
		coupon.NewValidator(f.coupons),
		f.gateway, f.notifier,
		pricing.NewConverter(110),
		Options{
			BaseCurrency:    pricing.CurrencyBDT,
			GatewayCurrency: pricing.CurrencyBDT,
			SuccessURL:      "https://shop.example.com/checkout/success",
			FailURL:         "https://shop.example.com/checkout/fail",
			ManualMethods:   []string{"bkash", "nagad", "bank-transfer"},
		},
	)
	return f
}

func (f *fixture) addProduct(priceBDT float64, quantity int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products.products[id] = &models.Product{ID: id, Name: "Widget", PriceBDT: fptr(priceBDT), IsActive: true}
	f.carts.items = append(f.carts.items, models.CartItem{
		ID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID(), ProductID: id, Quantity: quantity,
	})
	return id
}

func validManualInput() Input {
	return Input{
		CustomerID: primitive.NewObjectID(),
		Customer: models.CustomerInfo{
			Name:  "Rahim Uddin",
			Email: "rahim@example.com",
			Phone: "+8801712345678",
		},
		PaymentMethod:  "bkash",
		TransactionRef: "TXN-12345",
	}
}

func TestCheckoutManualPathHappy(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)

	result, err := f.svc.Checkout(context.Background(), validManualInput())

	require.NoError(t, err)
	order := result.Order
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 1000.0, order.Total)
	assert.Equal(t, "BDT", order.Currency)
	require.NotNil(t, order.TransactionRef)
	assert.Equal(t, "TXN-12345", *order.TransactionRef)
	assert.Empty(t, result.RedirectURL)
	assert.Equal(t, 1, f.carts.clearCalls)
	assert.Equal(t, []notify.Kind{notify.KindOrderConfirmation, notify.KindAdminNewOrder}, f.notifier.kinds)
	assert.Equal(t, "rahim@example.com", f.notifier.recipients[0])
}

func TestCheckoutTotalMatchesItemSum(t *testing.T) {
	f := newFixture()
	f.addProduct(250, 2)
	f.addProduct(100, 3)

	result, err := f.svc.Checkout(context.Background(), validManualInput())

	require.NoError(t, err)
	sum := 0.0
	for _, item := range f.items.items {
		sum += item.Price * float64(item.Quantity)
	}
	assert.Equal(t, sum, result.Order.Total)
	assert.Equal(t, 800.0, result.Order.Total)
	assert.Equal(t, 2, f.orders.itemCount)
}

func TestCheckoutVariantSalePriceWins(t *testing.T) {
	f := newFixture()
	productID := primitive.NewObjectID()
	variantID := primitive.NewObjectID()
	f.products.products[productID] = &models.Product{
		ID:           productID,
		Name:         "Widget",
		PriceBDT:     fptr(1000),
		SalePriceBDT: fptr(900),
		Variants: []models.Variant{{
			ID:           variantID,
			Name:         "Large",
			PriceBDT:     fptr(1200),
			SalePriceBDT: fptr(800),
		}},
	}
	f.carts.items = []models.CartItem{{
		ID: primitive.NewObjectID(), ProductID: productID, VariantID: &variantID, Quantity: 1,
	}}

	result, err := f.svc.Checkout(context.Background(), validManualInput())

	require.NoError(t, err)
	assert.Equal(t, 800.0, result.Order.Total)
	require.Len(t, f.items.items, 1)
	assert.Equal(t, 800.0, f.items.items[0].Price)
	assert.Equal(t, "Widget / Large", f.items.items[0].Name)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(context.Background(), validManualInput())

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, f.orders.created, "no order row may exist")
	assert.Empty(t, f.items.items)
}

func TestCheckoutValidationFailureCreatesNothing(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	in := validManualInput()
	in.Customer.Email = "not-an-email"

	_, err := f.svc.Checkout(context.Background(), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	assert.Nil(t, f.orders.created)
	assert.Zero(t, f.carts.clearCalls)
	assert.Empty(t, f.notifier.kinds)
}

func TestCheckoutCouponApplied(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	f.coupons.err = nil
	f.coupons.coupon = &models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountTypePercentage,
		DiscountValue: 10, MinOrderAmount: 500, IsActive: true,
	}
	in := validManualInput()
	in.CouponCode = "SAVE10"

	result, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 900.0, result.Order.Total)
	assert.Equal(t, 100.0, result.Order.Discount)
	assert.Equal(t, "SAVE10", result.Order.CouponCode)
	// Item prices stay frozen at catalog values; the discount lives on the order.
	assert.Equal(t, 1000.0, f.items.items[0].Price)
}

func TestCheckoutCouponMinimumUsesBaseCurrency(t *testing.T) {
	f := newFixture()
	id := f.addProduct(1100, 1)
	f.products.products[id].PriceUSD = fptr(10)
	f.coupons.err = nil
	f.coupons.coupon = &models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountTypePercentage,
		DiscountValue: 10, MinOrderAmount: 500, IsActive: true,
	}
	in := validManualInput()
	in.CouponCode = "SAVE10"
	in.Currency = pricing.CurrencyUSD

	result, err := f.svc.Checkout(context.Background(), in)

	// The 500 minimum is a BDT threshold; a 10 USD order is 1100 BDT and
	// clears it.
	require.NoError(t, err)
	assert.Equal(t, "USD", result.Order.Currency)
	assert.Equal(t, 9.0, result.Order.Total)
	assert.Equal(t, 1.0, result.Order.Discount)
}

func TestCheckoutFixedCouponConvertedToSettlementCurrency(t *testing.T) {
	f := newFixture()
	id := f.addProduct(1100, 1)
	f.products.products[id].PriceUSD = fptr(10)
	f.coupons.err = nil
	f.coupons.coupon = &models.Coupon{
		Code: "FLAT550", DiscountType: models.DiscountTypeFixed,
		DiscountValue: 550, IsActive: true,
	}
	in := validManualInput()
	in.CouponCode = "FLAT550"
	in.Currency = pricing.CurrencyUSD

	result, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Order.Discount, "550 BDT off a USD order is 5 USD")
	assert.Equal(t, 5.0, result.Order.Total)
}

func TestCheckoutCouponBelowMinimumCreatesNoOrder(t *testing.T) {
	f := newFixture()
	f.addProduct(400, 1)
	f.coupons.err = nil
	f.coupons.coupon = &models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountTypePercentage,
		DiscountValue: 10, MinOrderAmount: 500, IsActive: true,
	}
	in := validManualInput()
	in.CouponCode = "SAVE10"

	_, err := f.svc.Checkout(context.Background(), in)

	var ce *coupon.CouponError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, coupon.ReasonBelowMinimum, ce.Reason)
	assert.Nil(t, f.orders.created, "coupon failure must not create an order")
}

func TestCheckoutGatewayPathSuccess(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	in := validManualInput()
	in.PaymentMethod = "card"
	in.TransactionRef = ""

	result, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/s/1", result.RedirectURL)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.Equal(t, models.PaymentStatusPending, result.Order.PaymentStatus)
	assert.Nil(t, result.Order.TransactionRef, "gateway path has no reference until confirmation")
	require.NotNil(t, f.gateway.lastReq)
	assert.Equal(t, 1000.0, f.gateway.lastReq.Amount)
	assert.Equal(t, "https://shop.example.com/checkout/success", f.gateway.lastReq.SuccessURL)
}

func TestCheckoutUnknownPaymentMethodRejected(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	in := validManualInput()
	in.PaymentMethod = "cheque"
	in.TransactionRef = ""

	_, err := f.svc.Checkout(context.Background(), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "paymentMethod", ve.Field)
	assert.Zero(t, f.gateway.calls, "an unknown method must not open a payment session")
	assert.Nil(t, f.orders.created)
}

func TestCheckoutGatewayFailureCompensates(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	cause := errors.New("gateway unreachable")
	f.gateway.err = cause
	in := validManualInput()
	in.PaymentMethod = "card"
	in.TransactionRef = ""

	_, err := f.svc.Checkout(context.Background(), in)

	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, 1, f.orders.cancelCalls)
	assert.Equal(t, models.OrderStatusCancelled, f.orders.created.Status)
	assert.Equal(t, models.PaymentStatusFailed, f.orders.created.PaymentStatus)
	assert.Zero(t, f.carts.clearCalls, "cart survives a failed gateway checkout")
}

func TestCheckoutGatewayProductRefForSingleLine(t *testing.T) {
	f := newFixture()
	productID := f.addProduct(1000, 3)
	f.products.products[productID].ExternalID = "ext-42"
	in := validManualInput()
	in.PaymentMethod = "card"
	in.TransactionRef = ""

	_, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "ext-42", f.gateway.lastReq.ProductRef)
	assert.Equal(t, 3, f.gateway.lastReq.Quantity)
	assert.Empty(t, f.gateway.lastReq.Description)
}

func TestCheckoutGatewayGenericRequestForMultiLine(t *testing.T) {
	f := newFixture()
	id := f.addProduct(1000, 1)
	f.products.products[id].ExternalID = "ext-42"
	f.addProduct(500, 2)
	in := validManualInput()
	in.PaymentMethod = "card"
	in.TransactionRef = ""

	_, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, f.gateway.lastReq.ProductRef)
	assert.Equal(t, "Order with 2 items", f.gateway.lastReq.Description)
}

func TestCheckoutGatewayCurrencyConversion(t *testing.T) {
	f := newFixture()
	f.svc.opts.GatewayCurrency = pricing.CurrencyUSD
	f.addProduct(1100, 1)
	in := validManualInput()
	in.PaymentMethod = "card"
	in.TransactionRef = ""

	_, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 10.0, f.gateway.lastReq.Amount)
	assert.Equal(t, "USD", f.gateway.lastReq.Currency)
	assert.Equal(t, 1100.0, f.orders.created.Total, "settlement currency total stays in BDT")
}

func TestCheckoutPartialPersistence(t *testing.T) {
	f := newFixture()
	f.addProduct(250, 2)
	f.addProduct(100, 3)
	f.items.shortBy = 1

	_, err := f.svc.Checkout(context.Background(), validManualInput())

	var pe *PartialPersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Inserted)
	assert.Equal(t, 2, pe.Expected)
	require.NotNil(t, f.orders.created, "order stays visible for manual reconciliation")
	assert.Equal(t, models.OrderStatusPending, f.orders.created.Status)
	assert.Zero(t, f.orders.itemCount, "item count stays zero for reconciliation queries")
	assert.Zero(t, f.carts.clearCalls)
}

func TestCheckoutOrderWriteFailure(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	f.orders.createErr = errors.New("write concern timeout")

	_, err := f.svc.Checkout(context.Background(), validManualInput())

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Empty(t, f.items.items, "item write must not proceed without an order")
}

func TestCheckoutNotificationFailureIsolated(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	f.notifier.err = errors.New("queue full")

	result, err := f.svc.Checkout(context.Background(), validManualInput())

	require.NoError(t, err, "notification failure never fails checkout")
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.Equal(t, 1000.0, result.Order.Total)
}

func TestCheckoutCartClearFailureIsolated(t *testing.T) {
	f := newFixture()
	f.addProduct(1000, 1)
	f.carts.clearErr = errors.New("timeout")

	result, err := f.svc.Checkout(context.Background(), validManualInput())

	require.NoError(t, err)
	assert.NotNil(t, result.Order)
}

func TestCheckoutDiscountFloorsAtZero(t *testing.T) {
	f := newFixture()
	f.addProduct(100, 1)
	f.coupons.err = nil
	f.coupons.coupon = &models.Coupon{
		Code: "BIG", DiscountType: models.DiscountTypeFixed, DiscountValue: 500, IsActive: true,
	}
	in := validManualInput()
	in.CouponCode = "BIG"

	result, err := f.svc.Checkout(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Order.Total)
	assert.Equal(t, 100.0, result.Order.Discount)
}
