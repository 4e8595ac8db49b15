package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldtoyou/internal/orders/domain"
	"fieldtoyou/internal/orders/ports"
	shipdomain "fieldtoyou/internal/shipments/domain"
	apperrors "fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// MockOrderRepository is an in-memory OrderRepository that mirrors the
// stock semantics of the real one
type MockOrderRepository struct {
	orders  map[uuid.UUID]*domain.Order
	catalog *MockCatalogGateway
}

func NewMockOrderRepository(catalog *MockCatalogGateway) *MockOrderRepository {
	return &MockOrderRepository{
		orders:  make(map[uuid.UUID]*domain.Order),
		catalog: catalog,
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	for _, item := range order.Items {
		product := m.catalog.products[item.ProductID]
		if product == nil {
			return domain.NewOrderNotFound(item.ProductID)
		}
		if product.StockQuantity.LessThan(item.Quantity) {
			return domain.NewInsufficientStock(product.ID, product.Name, item.Quantity, product.StockQuantity)
		}
	}
	for _, item := range order.Items {
		product := m.catalog.products[item.ProductID]
		product.StockQuantity = product.StockQuantity.Sub(item.Quantity)
	}
	order.ID = uuid.New()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	return order, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		result = append(result, order)
	}
	return result, int64(len(result)), nil
}

func (m *MockOrderRepository) Cancel(ctx context.Context, order *domain.Order) error {
	for _, item := range order.Items {
		if product := m.catalog.products[item.ProductID]; product != nil {
			product.StockQuantity = product.StockQuantity.Add(item.Quantity)
		}
	}
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, order *domain.Order, from domain.PaymentStatus, advanceOrder bool) error {
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	m.orders[order.ID] = order
	return nil
}

// MockCatalogGateway serves products from a map
type MockCatalogGateway struct {
	products map[uuid.UUID]*ports.OrderableProduct
}

func NewMockCatalogGateway() *MockCatalogGateway {
	return &MockCatalogGateway{products: make(map[uuid.UUID]*ports.OrderableProduct)}
}

func (m *MockCatalogGateway) Add(p *ports.OrderableProduct) {
	m.products[p.ID] = p
}

func (m *MockCatalogGateway) OrderableProduct(ctx context.Context, id uuid.UUID) (*ports.OrderableProduct, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, apperrors.NewNotFound("product", id)
	}
	return product, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	created   []*domain.Order
	cancelled []*domain.Order
}

func (m *MockEventPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	m.created = append(m.created, order)
	return nil
}

func (m *MockEventPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	m.cancelled = append(m.cancelled, order)
	return nil
}

func tomatoes() *ports.OrderableProduct {
	return &ports.OrderableProduct{
		ID:               uuid.New(),
		Name:             "Cherry Tomatoes",
		PricePerUnit:     d("4.50"),
		Currency:         "ILS",
		StockQuantity:    d("50"),
		MinOrderQuantity: d("1"),
		IsActive:         true,
	}
}

func newTestUseCase() (*OrderUseCase, *MockOrderRepository, *MockCatalogGateway, *MockEventPublisher) {
	catalog := NewMockCatalogGateway()
	repo := NewMockOrderRepository(catalog)
	publisher := &MockEventPublisher{}
	log := logger.New("test", "debug")
	useCase := NewOrderUseCase(repo, catalog, publisher, uuid.New(), log)
	return useCase, repo, catalog, publisher
}

func TestCreateOrder_DecrementsStock(t *testing.T) {
	useCase, _, catalog, publisher := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines: []LineInput{
			{ProductID: product.ID, Quantity: d("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPendingPayment, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.SubtotalAmount.Equal(d("9.00")), "subtotal = %s", order.SubtotalAmount)
	assert.True(t, product.StockQuantity.Equal(d("48")), "stock = %s", product.StockQuantity)
	assert.Len(t, publisher.created, 1)
}

func TestCreateOrder_SnapshotsLivePrice(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	assert.True(t, order.Items[0].UnitPrice.Equal(d("4.50")))
	assert.Equal(t, "Cherry Tomatoes", order.Items[0].ProductName)
	assert.Equal(t, "ILS", order.Currency)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	useCase, _, catalog, publisher := newTestUseCase()
	product := tomatoes()
	product.StockQuantity = d("1")
	catalog.Add(product)

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("2")}},
	})
	require.Error(t, err)

	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientStock), "got %v", err)
	assert.True(t, product.StockQuantity.Equal(d("1")), "stock must be untouched")
	assert.Empty(t, publisher.created)
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	inStock := tomatoes()
	catalog.Add(inStock)
	outOfStock := tomatoes()
	outOfStock.Name = "Strawberries"
	outOfStock.StockQuantity = decimal.Zero
	catalog.Add(outOfStock)

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines: []LineInput{
			{ProductID: inStock.ID, Quantity: d("2")},
			{ProductID: outOfStock.ID, Quantity: d("1")},
		},
	})
	require.Error(t, err)

	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientStock))
	assert.True(t, inStock.StockQuantity.Equal(d("50")), "no line may commit when one fails")
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	product.IsActive = false
	catalog.Add(product)

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeProductUnavailable), "got %v", err)
}

func TestCreateOrder_OutsideAvailabilityWindow(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	past := time.Now().AddDate(0, -2, 0)
	ended := time.Now().AddDate(0, -1, 0)
	product.AvailableFrom = &past
	product.AvailableUntil = &ended
	catalog.Add(product)

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeProductUnavailable))
}

func TestCreateOrder_QuantityBelowMinimum(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	product.MinOrderQuantity = d("5")
	catalog.Add(product)

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("2")}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestCreateOrder_QuantityAboveMaximum(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	max := d("10")
	product.MaxOrderQuantity = &max
	catalog.Add(product)

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("11")}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestCreateOrder_NoLines(t *testing.T) {
	useCase, _, _, _ := newTestUseCase()

	_, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrNoItems)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	useCase, _, catalog, publisher := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)
	require.True(t, product.StockQuantity.Equal(d("48")))

	cancelled, err := useCase.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.True(t, product.StockQuantity.Equal(d("50")), "stock = %s", product.StockQuantity)
	assert.Len(t, publisher.cancelled, 1)
}

func TestCancelOrder_TerminalStatus(t *testing.T) {
	useCase, repo, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)

	repo.orders[order.ID].Status = domain.OrderStatusFulfilled

	_, err = useCase.CancelOrder(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
	assert.True(t, product.StockQuantity.Equal(d("48")), "stock must not be restored")
}

func TestCancelOrder_ShipmentInTransit(t *testing.T) {
	useCase, repo, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)

	stored := repo.orders[order.ID]
	stored.Status = domain.OrderStatusPaid
	stored.Shipment = &domain.ShipmentRef{ID: uuid.New(), Status: string(shipdomain.StatusShipped)}

	_, err = useCase.CancelOrder(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeShipmentInTransit))
}

func TestUpdatePaymentStatus_CapturedAdvancesOrder(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	updated, err := useCase.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusAuthorized, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPendingPayment, updated.Status)

	updated, err = useCase.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusCaptured, "pay_123")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusCaptured, updated.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPaid, updated.Status)
	assert.Equal(t, "pay_123", updated.PaymentReference)
}

func TestUpdatePaymentStatus_InvalidTransition(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	// PENDING cannot jump straight to CAPTURED
	_, err = useCase.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusCaptured, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidPaymentTransition))
}

func TestUpdateOrderStatus_FulfilledRequiresDelivery(t *testing.T) {
	useCase, repo, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	stored := repo.orders[order.ID]
	stored.Status = domain.OrderStatusPaid

	// No shipment at all
	_, err = useCase.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusFulfilled)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeShipmentNotDelivered))

	// Shipment exists but is not delivered yet
	stored.Shipment = &domain.ShipmentRef{ID: uuid.New(), Status: string(shipdomain.StatusShipped)}
	_, err = useCase.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusFulfilled)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeShipmentNotDelivered))

	// Delivered shipment unlocks fulfillment
	stored.Shipment.Status = string(shipdomain.StatusDelivered)
	updated, err := useCase.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusFulfilled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFulfilled, updated.Status)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	// PENDING_PAYMENT cannot go back to DRAFT
	_, err = useCase.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusDraft)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
}

func TestUpdateOrderStatus_CancelledRoutesThroughCancel(t *testing.T) {
	useCase, _, catalog, publisher := newTestUseCase()
	product := tomatoes()
	catalog.Add(product)

	order, err := useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: uuid.New(),
		Lines:      []LineInput{{ProductID: product.ID, Quantity: d("3")}},
	})
	require.NoError(t, err)
	require.True(t, product.StockQuantity.Equal(d("47")))

	updated, err := useCase.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	assert.True(t, product.StockQuantity.Equal(d("50")), "cancellation must restore stock")
	assert.Len(t, publisher.cancelled, 1)
}
