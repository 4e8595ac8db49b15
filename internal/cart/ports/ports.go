package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/internal/cart/domain"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// GetActiveBySession retrieves the session's ACTIVE cart with its
	// items, or a not found error
	GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error)

	// GetByID retrieves a cart by ID with its items
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)

	// Create creates a new cart
	Create(ctx context.Context, cart *domain.Cart) error

	// SaveItem inserts or updates a cart line
	SaveItem(ctx context.Context, item *domain.CartItem) error

	// RemoveItem deletes a cart line
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error

	// ClearItems deletes all lines of a cart
	ClearItems(ctx context.Context, cartID uuid.UUID) error

	// SetCustomer attaches a customer to a cart
	SetCustomer(ctx context.Context, cartID, customerID uuid.UUID) error

	// UpdateStatus moves the cart between lifecycle statuses, guarded on
	// the prior status so a cart converts at most once
	UpdateStatus(ctx context.Context, cartID uuid.UUID, from, to domain.Status) error
}

// CartProduct is the catalog projection the cart needs for validation and
// price capture
type CartProduct struct {
	ID               uuid.UUID
	Name             string
	PricePerUnit     decimal.Decimal
	Currency         string
	StockQuantity    decimal.Decimal
	MinOrderQuantity decimal.Decimal
	MaxOrderQuantity *decimal.Decimal
	IsActive         bool
	AvailableFrom    *time.Time
	AvailableUntil   *time.Time
}

// AvailableOn reports whether the product can be sold on the given date.
// The window bounds are calendar dates and both ends are inclusive.
func (p *CartProduct) AvailableOn(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	day := dateOnly(t)
	if p.AvailableFrom != nil && day.Before(dateOnly(*p.AvailableFrom)) {
		return false
	}
	if p.AvailableUntil != nil && day.After(dateOnly(*p.AvailableUntil)) {
		return false
	}
	return true
}

// dateOnly strips the clock so window comparisons work on calendar days
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProductReader reads catalog products for cart operations
type ProductReader interface {
	Product(ctx context.Context, id uuid.UUID) (*CartProduct, error)
}

// CheckoutLine is one product/quantity pair handed to the order workflow
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// CheckoutShipping is the shipping address collected at checkout
type CheckoutShipping struct {
	Name       string
	Phone      string
	Address1   string
	Address2   string
	City       string
	PostalCode string
	Country    string
}

// CheckoutOrder is the order request built from a cart at checkout
type CheckoutOrder struct {
	CustomerID     uuid.UUID
	Lines          []CheckoutLine
	Shipping       CheckoutShipping
	ShippingAmount decimal.Decimal
	CustomerNotes  string
}

// PlacedOrder is the summary of the order created from a cart
type PlacedOrder struct {
	ID          uuid.UUID
	Status      string
	TotalAmount decimal.Decimal
	Currency    string
}

// OrderPlacer hands a repriced cart to the order workflow. Placement is
// all-or-nothing: if any line cannot be satisfied no order is created and
// the cart stays ACTIVE.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order CheckoutOrder) (*PlacedOrder, error)
}
