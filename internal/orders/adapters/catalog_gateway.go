package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fieldtoyou/internal/orders/ports"
	"fieldtoyou/internal/storage"
	apperrors "fieldtoyou/pkg/errors"
)

// CatalogGateway implements ports.CatalogGateway over the product table
type CatalogGateway struct {
	db *gorm.DB
}

// NewCatalogGateway creates a catalog gateway for order validation
func NewCatalogGateway(db *gorm.DB) *CatalogGateway {
	return &CatalogGateway{db: db}
}

// OrderableProduct retrieves the product fields order creation needs
func (g *CatalogGateway) OrderableProduct(ctx context.Context, id uuid.UUID) (*ports.OrderableProduct, error) {
	var model storage.ProductModel

	result := g.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product", id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	var max *decimal.Decimal
	if model.MaxOrderQuantity.Valid {
		max = &model.MaxOrderQuantity.Decimal
	}

	return &ports.OrderableProduct{
		ID:               model.ID,
		Name:             model.Name,
		PricePerUnit:     model.PricePerUnit,
		Currency:         model.Currency,
		StockQuantity:    model.StockQuantity,
		MinOrderQuantity: model.MinOrderQuantity,
		MaxOrderQuantity: max,
		IsActive:         model.IsActive,
		AvailableFrom:    model.AvailableFrom,
		AvailableUntil:   model.AvailableUntil,
	}, nil
}
