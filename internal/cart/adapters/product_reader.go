package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fieldtoyou/internal/cart/ports"
	"fieldtoyou/internal/storage"
	apperrors "fieldtoyou/pkg/errors"
)

// ProductReader reads catalog products for cart validation and price
// capture
type ProductReader struct {
	db *gorm.DB
}

// NewProductReader creates a new product reader
func NewProductReader(db *gorm.DB) *ProductReader {
	return &ProductReader{db: db}
}

// Product retrieves the catalog projection for a product
func (r *ProductReader) Product(ctx context.Context, id uuid.UUID) (*ports.CartProduct, error) {
	var model storage.ProductModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product", id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	var max *decimal.Decimal
	if model.MaxOrderQuantity.Valid {
		v := model.MaxOrderQuantity.Decimal
		max = &v
	}

	return &ports.CartProduct{
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
