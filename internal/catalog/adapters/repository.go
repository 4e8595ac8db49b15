package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fieldtoyou/internal/catalog/domain"
	"fieldtoyou/internal/catalog/ports"
	"fieldtoyou/internal/storage"
	"fieldtoyou/pkg/db"
	apperrors "fieldtoyou/pkg/errors"
)

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product
// repository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Create creates a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create product", result.Error)
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a product by ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var model storage.ProductModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	return toProductDomain(&model), nil
}

// Update updates product attributes, leaving stock_quantity untouched so
// it cannot race the order workflow's conditional updates
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)

	result := r.db.WithContext(ctx).Model(&storage.ProductModel{}).
		Where("id = ?", product.ID).
		Omit("stock_quantity", "created_at").
		Select("*").
		Updates(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewProductNotFound(product.ID)
	}
	return nil
}

// List retrieves products matching the filter
func (r *PostgresProductRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&storage.ProductModel{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal("failed to count products", err)
	}

	var models []storage.ProductModel
	err := query.
		Order("name ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewInternal("failed to list products", err)
	}

	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = toProductDomain(&models[i])
	}

	return products, total, nil
}

// AdjustStock adds delta to stock, guarded so stock never goes negative
func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*domain.Product, error) {
	err := db.Transaction(r.db, ctx, func(tx *gorm.DB) error {
		if delta.IsNegative() {
			ok, err := storage.DecrementStock(tx, id, delta.Neg())
			if err != nil {
				return apperrors.NewInternal("failed to adjust stock", err)
			}
			if !ok {
				var model storage.ProductModel
				if err := tx.First(&model, "id = ?", id).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return domain.NewProductNotFound(id)
					}
					return apperrors.NewInternal("failed to read product", err)
				}
				return domain.NewStockBelowZero(id)
			}
			return nil
		}

		ok, err := storage.RestoreStock(tx, id, delta)
		if err != nil {
			return apperrors.NewInternal("failed to adjust stock", err)
		}
		if !ok {
			return domain.NewProductNotFound(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// toProductModel converts a domain product to its GORM model
func toProductModel(p *domain.Product) *storage.ProductModel {
	max := decimal.NullDecimal{}
	if p.MaxOrderQuantity != nil {
		max = decimal.NullDecimal{Decimal: *p.MaxOrderQuantity, Valid: true}
	}

	return &storage.ProductModel{
		ID:               p.ID,
		FarmerID:         p.FarmerID,
		CategoryID:       p.CategoryID,
		UnitLabelID:      p.UnitLabelID,
		Name:             p.Name,
		Description:      p.Description,
		UnitSize:         p.UnitSize,
		PricePerUnit:     p.PricePerUnit,
		Currency:         p.Currency,
		StockQuantity:    p.StockQuantity,
		MinOrderQuantity: p.MinOrderQuantity,
		MaxOrderQuantity: max,
		IsActive:         p.IsActive,
		IsOrganic:        p.IsOrganic,
		AvailableFrom:    p.AvailableFrom,
		AvailableUntil:   p.AvailableUntil,
		ImageURL:         p.ImageURL,
	}
}

// toProductDomain converts a GORM model to a domain product
func toProductDomain(model *storage.ProductModel) *domain.Product {
	var max *decimal.Decimal
	if model.MaxOrderQuantity.Valid {
		v := model.MaxOrderQuantity.Decimal
		max = &v
	}

	return &domain.Product{
		ID:               model.ID,
		FarmerID:         model.FarmerID,
		CategoryID:       model.CategoryID,
		UnitLabelID:      model.UnitLabelID,
		Name:             model.Name,
		Description:      model.Description,
		UnitSize:         model.UnitSize,
		PricePerUnit:     model.PricePerUnit,
		Currency:         model.Currency,
		StockQuantity:    model.StockQuantity,
		MinOrderQuantity: model.MinOrderQuantity,
		MaxOrderQuantity: max,
		IsActive:         model.IsActive,
		IsOrganic:        model.IsOrganic,
		AvailableFrom:    model.AvailableFrom,
		AvailableUntil:   model.AvailableUntil,
		ImageURL:         model.ImageURL,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}
