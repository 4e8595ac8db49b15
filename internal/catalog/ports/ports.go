package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/internal/catalog/domain"
)

// ListFilter narrows product listings
type ListFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
	Offset     int
	Limit      int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// Update updates product attributes. Stock is excluded; it only
	// moves through AdjustStock and the order workflow.
	Update(ctx context.Context, product *domain.Product) error

	// List retrieves products matching the filter with the total match
	// count
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, int64, error)

	// AdjustStock adds delta (which may be negative, e.g. spoilage) to
	// the product's stock, rejecting adjustments that would go below
	// zero
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*domain.Product, error)
}
