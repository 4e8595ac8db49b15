package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fieldtoyou/internal/catalog/domain"
	"fieldtoyou/internal/catalog/ports"
	"fieldtoyou/pkg/logger"
)

// ProductUseCase handles catalog management for the farm
type ProductUseCase struct {
	repo     ports.ProductRepository
	farmerID uuid.UUID
	log      *logger.Logger
}

// NewProductUseCase creates a new product use case
func NewProductUseCase(repo ports.ProductRepository, farmerID uuid.UUID, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		repo:     repo,
		farmerID: farmerID,
		log:      log,
	}
}

// CreateProductInput represents the input for creating a product
type CreateProductInput struct {
	CategoryID       uuid.UUID
	UnitLabelID      uuid.UUID
	Name             string
	Description      string
	UnitSize         decimal.Decimal
	PricePerUnit     decimal.Decimal
	Currency         string
	StockQuantity    decimal.Decimal
	MinOrderQuantity decimal.Decimal
	MaxOrderQuantity *decimal.Decimal
	IsOrganic        bool
	AvailableFrom    *time.Time
	AvailableUntil   *time.Time
	ImageURL         string
}

// CreateProduct adds a product to the farm's catalog
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	minOrder := input.MinOrderQuantity
	if minOrder.IsZero() {
		minOrder = decimal.NewFromInt(1)
	}
	currency := input.Currency
	if currency == "" {
		currency = "ILS"
	}

	product := &domain.Product{
		FarmerID:         uc.farmerID,
		CategoryID:       input.CategoryID,
		UnitLabelID:      input.UnitLabelID,
		Name:             input.Name,
		Description:      input.Description,
		UnitSize:         input.UnitSize,
		PricePerUnit:     input.PricePerUnit,
		Currency:         currency,
		StockQuantity:    input.StockQuantity,
		MinOrderQuantity: minOrder,
		MaxOrderQuantity: input.MaxOrderQuantity,
		IsActive:         true,
		IsOrganic:        input.IsOrganic,
		AvailableFrom:    input.AvailableFrom,
		AvailableUntil:   input.AvailableUntil,
		ImageURL:         input.ImageURL,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.String("stock", product.StockQuantity.String()),
	)

	return product, nil
}

// GetProduct retrieves a product by ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListProducts retrieves products matching the filter
func (uc *ProductUseCase) ListProducts(ctx context.Context, filter ports.ListFilter) ([]*domain.Product, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return uc.repo.List(ctx, filter)
}

// UpdateProductInput represents the updatable product attributes. Nil
// fields are left unchanged; stock moves only through AdjustStock and
// the order workflow.
type UpdateProductInput struct {
	Name             *string
	Description      *string
	PricePerUnit     *decimal.Decimal
	MinOrderQuantity *decimal.Decimal
	MaxOrderQuantity *decimal.Decimal
	IsActive         *bool
	IsOrganic        *bool
	AvailableFrom    *time.Time
	AvailableUntil   *time.Time
	ImageURL         *string
}

// UpdateProduct updates product attributes
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PricePerUnit != nil {
		product.PricePerUnit = *input.PricePerUnit
	}
	if input.MinOrderQuantity != nil {
		product.MinOrderQuantity = *input.MinOrderQuantity
	}
	if input.MaxOrderQuantity != nil {
		product.MaxOrderQuantity = input.MaxOrderQuantity
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsOrganic != nil {
		product.IsOrganic = *input.IsOrganic
	}
	if input.AvailableFrom != nil {
		product.AvailableFrom = input.AvailableFrom
	}
	if input.AvailableUntil != nil {
		product.AvailableUntil = input.AvailableUntil
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("product updated",
		zap.String("product_id", product.ID.String()),
	)

	return product, nil
}

// AdjustStock applies a manual stock adjustment (restock or write-off)
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*domain.Product, error) {
	if delta.IsZero() {
		return uc.repo.GetByID(ctx, id)
	}

	product, err := uc.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("stock adjusted",
		zap.String("product_id", id.String()),
		zap.String("delta", delta.String()),
		zap.String("stock", product.StockQuantity.String()),
	)

	return product, nil
}
