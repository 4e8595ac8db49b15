package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/internal/orders/domain"
)

// ListFilter narrows order listings
type ListFilter struct {
	CustomerID    *uuid.UUID
	Status        *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
	Offset        int
	Limit         int
}

// OrderRepository defines the interface for order persistence. Create and
// Cancel are units of work: the aggregate write and every stock
// adjustment commit together or not at all.
type OrderRepository interface {
	// Create persists the order with its items and decrements each
	// product's stock in one transaction. Returns an insufficient-stock
	// error naming the offending product when any line oversells.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items and shipment reference
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// List retrieves orders matching the filter, newest first, with the
	// total match count
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, int64, error)

	// Cancel flips the order to CANCELLED, restores stock for every
	// item, and cancels a PENDING/PACKED shipment, in one transaction
	Cancel(ctx context.Context, order *domain.Order) error

	// UpdatePaymentStatus persists the order's payment status (and, when
	// advanceOrder is set, the coupled PENDING_PAYMENT -> PAID order
	// status flip) in one transaction, guarded on the prior payment
	// status
	UpdatePaymentStatus(ctx context.Context, order *domain.Order, from domain.PaymentStatus, advanceOrder bool) error

	// UpdateStatus persists an order status transition already validated
	// by the caller, guarded on the prior status
	UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error
}

// OrderableProduct is the catalog data order creation validates against
type OrderableProduct struct {
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

// AvailableOn reports whether the product can be ordered on the given
// date: active and inside its availability window when one is set. The
// window bounds are calendar dates and both ends are inclusive.
func (p *OrderableProduct) AvailableOn(t time.Time) bool {
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

// CatalogGateway supplies product records for order validation
type CatalogGateway interface {
	// OrderableProduct retrieves the product fields order creation needs
	OrderableProduct(ctx context.Context, id uuid.UUID) (*OrderableProduct, error)
}

// EventPublisher defines the interface for publishing order events
type EventPublisher interface {
	// PublishOrderCreated publishes an order created event
	PublishOrderCreated(ctx context.Context, order *domain.Order) error

	// PublishOrderCancelled publishes an order cancelled event
	PublishOrderCancelled(ctx context.Context, order *domain.Order) error
}
