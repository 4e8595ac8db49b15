package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldtoyou/internal/cart/domain"
	"fieldtoyou/internal/cart/ports"
	apperrors "fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// MockCartRepository is an in-memory CartRepository
type MockCartRepository struct {
	carts map[uuid.UUID]*domain.Cart
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{carts: make(map[uuid.UUID]*domain.Cart)}
}

func (m *MockCartRepository) GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	for _, cart := range m.carts {
		if cart.SessionID == sessionID && cart.Status == domain.StatusActive {
			return cart, nil
		}
	}
	return nil, apperrors.NewNotFound("cart", sessionID)
}

func (m *MockCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	cart, ok := m.carts[id]
	if !ok {
		return nil, domain.NewCartNotFound(id)
	}
	return cart, nil
}

func (m *MockCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	cart.ID = uuid.New()
	m.carts[cart.ID] = cart
	return nil
}

func (m *MockCartRepository) SaveItem(ctx context.Context, item *domain.CartItem) error {
	cart := m.carts[item.CartID]
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
		cart.Items = append(cart.Items, *item)
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			return nil
		}
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	cart := m.carts[cartID]
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return domain.NewItemNotFound(itemID)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	m.carts[cartID].Items = nil
	return nil
}

func (m *MockCartRepository) SetCustomer(ctx context.Context, cartID, customerID uuid.UUID) error {
	id := customerID
	m.carts[cartID].CustomerID = &id
	return nil
}

func (m *MockCartRepository) UpdateStatus(ctx context.Context, cartID uuid.UUID, from, to domain.Status) error {
	cart := m.carts[cartID]
	if cart.Status != from {
		return apperrors.NewConflict("cart is no longer " + string(from))
	}
	cart.Status = to
	return nil
}

// MockProductReader serves cart products from a map
type MockProductReader struct {
	products map[uuid.UUID]*ports.CartProduct
}

func NewMockProductReader() *MockProductReader {
	return &MockProductReader{products: make(map[uuid.UUID]*ports.CartProduct)}
}

func (m *MockProductReader) Add(p *ports.CartProduct) {
	m.products[p.ID] = p
}

func (m *MockProductReader) Product(ctx context.Context, id uuid.UUID) (*ports.CartProduct, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, apperrors.NewNotFound("product", id)
	}
	return product, nil
}

// MockOrderPlacer records checkout requests and fakes placement
type MockOrderPlacer struct {
	placed  []ports.CheckoutOrder
	failErr error
}

func (m *MockOrderPlacer) PlaceOrder(ctx context.Context, order ports.CheckoutOrder) (*ports.PlacedOrder, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	m.placed = append(m.placed, order)
	return &ports.PlacedOrder{
		ID:          uuid.New(),
		Status:      "PENDING_PAYMENT",
		TotalAmount: d("42.00"),
		Currency:    "ILS",
	}, nil
}

func cucumbers() *ports.CartProduct {
	return &ports.CartProduct{
		ID:               uuid.New(),
		Name:             "Cucumbers",
		PricePerUnit:     d("6.00"),
		Currency:         "ILS",
		StockQuantity:    d("30"),
		MinOrderQuantity: d("1"),
		IsActive:         true,
	}
}

func newTestUseCase() (*CartUseCase, *MockCartRepository, *MockProductReader, *MockOrderPlacer) {
	repo := NewMockCartRepository()
	catalog := NewMockProductReader()
	placer := &MockOrderPlacer{}
	log := logger.New("test", "debug")
	return NewCartUseCase(repo, catalog, placer, log), repo, catalog, placer
}

func TestGetCart_CreatesOnFirstTouch(t *testing.T) {
	useCase, _, _, _ := newTestUseCase()

	cart, err := useCase.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, cart.Status)
	assert.Equal(t, "sess-1", cart.SessionID)
	assert.Empty(t, cart.Items)

	again, err := useCase.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := cucumbers()
	catalog.Add(product)

	cart, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("2"))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Quantity.Equal(d("2")))

	cart, err = useCase.AddItem(context.Background(), "sess-1", product.ID, d("3"))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Quantity.Equal(d("5")))
	assert.True(t, cart.Items[0].UnitPrice.Equal(d("6.00")))
}

func TestAddItem_StockExceeded(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := cucumbers()
	product.StockQuantity = d("4")
	catalog.Add(product)

	_, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("3"))
	require.NoError(t, err)

	// The merged quantity would exceed what is on hand
	_, err = useCase.AddItem(context.Background(), "sess-1", product.ID, d("2"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientStock))
}

func TestAddItem_InactiveProduct(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := cucumbers()
	product.IsActive = false
	catalog.Add(product)

	_, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("1"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeProductUnavailable))
}

func TestUpdateItemQuantity_ZeroRemoves(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := cucumbers()
	catalog.Add(product)

	cart, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("2"))
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = useCase.UpdateItemQuantity(context.Background(), "sess-1", itemID, decimal.Zero)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItem(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := cucumbers()
	catalog.Add(product)

	cart, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("2"))
	require.NoError(t, err)

	cart, err = useCase.RemoveItem(context.Background(), "sess-1", cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = useCase.RemoveItem(context.Background(), "sess-1", uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestCheckout_ConvertsCart(t *testing.T) {
	useCase, _, catalog, placer := newTestUseCase()
	product := cucumbers()
	catalog.Add(product)
	customerID := uuid.New()

	_, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("2"))
	require.NoError(t, err)

	result, err := useCase.Checkout(context.Background(), "sess-1", CheckoutInput{
		CustomerID: &customerID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConverted, result.Cart.Status)
	assert.NotEqual(t, uuid.Nil, result.Order.ID)
	require.Len(t, placer.placed, 1)
	assert.Equal(t, customerID, placer.placed[0].CustomerID)
	require.Len(t, placer.placed[0].Lines, 1)
	assert.True(t, placer.placed[0].Lines[0].Quantity.Equal(d("2")))

	// A converted cart no longer accepts items; a fresh one is created
	cart, err := useCase.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.NotEqual(t, result.Cart.ID, cart.ID)
	assert.Empty(t, cart.Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	useCase, _, _, _ := newTestUseCase()
	customerID := uuid.New()

	_, err := useCase.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)

	_, err = useCase.Checkout(context.Background(), "sess-1", CheckoutInput{CustomerID: &customerID})
	assert.ErrorIs(t, err, domain.ErrEmptyCheckout)
}

func TestCheckout_RequiresCustomer(t *testing.T) {
	useCase, _, catalog, _ := newTestUseCase()
	product := cucumbers()
	catalog.Add(product)

	_, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("1"))
	require.NoError(t, err)

	_, err = useCase.Checkout(context.Background(), "sess-1", CheckoutInput{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestCheckout_PlacementFailureKeepsCartActive(t *testing.T) {
	useCase, repo, catalog, placer := newTestUseCase()
	product := cucumbers()
	catalog.Add(product)
	customerID := uuid.New()
	placer.failErr = apperrors.New(apperrors.CodeInsufficientStock, "insufficient stock", nil)

	cart, err := useCase.AddItem(context.Background(), "sess-1", product.ID, d("2"))
	require.NoError(t, err)

	_, err = useCase.Checkout(context.Background(), "sess-1", CheckoutInput{CustomerID: &customerID})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientStock))

	// The cart survives with its items so the shopper can adjust and retry
	stored := repo.carts[cart.ID]
	assert.Equal(t, domain.StatusActive, stored.Status)
	assert.Len(t, stored.Items, 1)
}

func TestCartSubtotal(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{Quantity: d("2"), UnitPrice: d("4.50")},
			{Quantity: d("1.5"), UnitPrice: d("6.00")},
		},
	}
	assert.True(t, cart.Subtotal().Equal(d("18.00")), "subtotal = %s", cart.Subtotal())
}
