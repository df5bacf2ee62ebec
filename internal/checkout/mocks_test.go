package checkout

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/gateway"
	"storefront/internal/models"
	"storefront/internal/notify"
)

// mockOrderStore implements store.OrderStore for testing.
type mockOrderStore struct {
	created      *models.Order
	createErr    error
	cancelCalls  int
	cancelErr    error
	itemCount    int
	itemCountErr error
}

func (m *mockOrderStore) Create(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	if m.createErr != nil {
		return primitive.NilObjectID, m.createErr
	}
	order.ID = primitive.NewObjectID()
	m.created = order
	return order.ID, nil
}

func (m *mockOrderStore) GetByID(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
	return m.created, nil
}

func (m *mockOrderStore) SetStatus(_ context.Context, _ primitive.ObjectID, status models.OrderStatus) error {
	m.created.Status = status
	return nil
}

func (m *mockOrderStore) SetPaymentStatus(_ context.Context, _ primitive.ObjectID, status models.PaymentStatus) error {
	m.created.PaymentStatus = status
	return nil
}

func (m *mockOrderStore) Cancel(_ context.Context, _ primitive.ObjectID) error {
	m.cancelCalls++
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.created.Status = models.OrderStatusCancelled
	m.created.PaymentStatus = models.PaymentStatusFailed
	return nil
}

func (m *mockOrderStore) SetItemCount(_ context.Context, _ primitive.ObjectID, count int) error {
	if m.itemCountErr != nil {
		return m.itemCountErr
	}
	m.itemCount = count
	return nil
}

func (m *mockOrderStore) List(_ context.Context, _, _ int64) ([]models.Order, error) {
	return nil, nil
}

func (m *mockOrderStore) ListPendingWithoutItems(_ context.Context) ([]models.Order, error) {
	return nil, nil
}

// mockItemStore implements store.OrderItemStore.
type mockItemStore struct {
	items     []models.OrderItem
	insertErr error
	// shortBy caps the reported insert count below the requested batch.
	shortBy int
}

func (m *mockItemStore) InsertMany(_ context.Context, items []models.OrderItem) (int, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	inserted := len(items) - m.shortBy
	m.items = append(m.items, items[:inserted]...)
	return inserted, nil
}

func (m *mockItemStore) ListByOrder(_ context.Context, _ primitive.ObjectID) ([]models.OrderItem, error) {
	return m.items, nil
}

// mockCartStore implements store.CartStore.
type mockCartStore struct {
	items      []models.CartItem
	getErr     error
	clearCalls int
	clearErr   error
}

func (m *mockCartStore) GetCart(_ context.Context, _ primitive.ObjectID) ([]models.CartItem, error) {
	return m.items, m.getErr
}

func (m *mockCartStore) AddItem(_ context.Context, _, _ primitive.ObjectID, _ *primitive.ObjectID, _ int) error {
	return nil
}

func (m *mockCartStore) UpdateQuantity(_ context.Context, _, _ primitive.ObjectID, _ int) error {
	return nil
}

func (m *mockCartStore) RemoveItem(_ context.Context, _, _ primitive.ObjectID) error {
	return nil
}

func (m *mockCartStore) Clear(_ context.Context, _ primitive.ObjectID) error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.items = nil
	return nil
}

// mockProductStore implements store.ProductStore.
type mockProductStore struct {
	products map[primitive.ObjectID]*models.Product
	err      error
}

func (m *mockProductStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products[id], nil
}

// mockCouponStore implements coupon.Store.
type mockCouponStore struct {
	coupon *models.Coupon
	err    error
}

func (m *mockCouponStore) FindActiveByCode(_ context.Context, _ string) (*models.Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.coupon, nil
}

// mockGateway implements gateway.Client.
type mockGateway struct {
	session *gateway.PaymentSession
	err     error
	lastReq *gateway.PaymentRequest
	calls   int
}

func (m *mockGateway) CreatePaymentRequest(_ context.Context, req gateway.PaymentRequest) (*gateway.PaymentSession, error) {
	m.calls++
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

// mockNotifier implements Notifier.
type mockNotifier struct {
	kinds      []notify.Kind
	recipients []string
	err        error
}

func (m *mockNotifier) Enqueue(kind notify.Kind, recipient string, _ map[string]interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.kinds = append(m.kinds, kind)
	m.recipients = append(m.recipients, recipient)
	return nil
}
