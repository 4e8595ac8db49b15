package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldtoyou/internal/cart/domain"
	"fieldtoyou/internal/storage"
	apperrors "fieldtoyou/pkg/errors"
)

// PostgresCartRepository implements CartRepository using PostgreSQL
type PostgresCartRepository struct {
	db *gorm.DB
}

// NewPostgresCartRepository creates a new PostgreSQL cart repository
func NewPostgresCartRepository(db *gorm.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

// GetActiveBySession retrieves the session's ACTIVE cart with its items
func (r *PostgresCartRepository) GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var model storage.CartModel

	result := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ? AND status = ?", sessionID, string(domain.StatusActive)).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("cart", sessionID)
		}
		return nil, apperrors.NewInternal("failed to get cart", result.Error)
	}

	return toCartDomain(&model), nil
}

// GetByID retrieves a cart by ID with its items
func (r *PostgresCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	var model storage.CartModel

	result := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewCartNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get cart", result.Error)
	}

	return toCartDomain(&model), nil
}

// Create creates a new cart
func (r *PostgresCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	model := &storage.CartModel{
		ID:        cart.ID,
		SessionID: cart.SessionID,
		Status:    string(cart.Status),
	}
	if cart.CustomerID != nil {
		model.CustomerID = uuid.NullUUID{UUID: *cart.CustomerID, Valid: true}
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create cart", result.Error)
	}

	cart.ID = model.ID
	cart.CreatedAt = model.CreatedAt
	cart.UpdatedAt = model.UpdatedAt
	return nil
}

// SaveItem inserts or updates a cart line
func (r *PostgresCartRepository) SaveItem(ctx context.Context, item *domain.CartItem) error {
	model := &storage.CartItemModel{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to save cart item", result.Error)
	}

	item.ID = model.ID
	return nil
}

// RemoveItem deletes a cart line
func (r *PostgresCartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&storage.CartItemModel{}, "id = ?", itemID)
	if result.Error != nil {
		return apperrors.NewInternal("failed to remove cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewItemNotFound(itemID)
	}
	return nil
}

// ClearItems deletes all lines of a cart
func (r *PostgresCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&storage.CartItemModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to clear cart", result.Error)
	}
	return nil
}

// SetCustomer attaches a customer to a cart
func (r *PostgresCartRepository) SetCustomer(ctx context.Context, cartID, customerID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&storage.CartModel{}).
		Where("id = ?", cartID).
		Update("customer_id", customerID)
	if result.Error != nil {
		return apperrors.NewInternal("failed to set cart customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewCartNotFound(cartID)
	}
	return nil
}

// UpdateStatus moves the cart between lifecycle statuses, guarded on the
// prior status
func (r *PostgresCartRepository) UpdateStatus(ctx context.Context, cartID uuid.UUID, from, to domain.Status) error {
	result := r.db.WithContext(ctx).Model(&storage.CartModel{}).
		Where("id = ? AND status = ?", cartID, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return apperrors.NewInternal("failed to update cart status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflict("cart " + cartID.String() + " is no longer " + string(from))
	}
	return nil
}

// toCartDomain converts a GORM model to a domain cart
func toCartDomain(model *storage.CartModel) *domain.Cart {
	items := make([]domain.CartItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.CartItem{
			ID:        item.ID,
			CartID:    item.CartID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
	}

	cart := &domain.Cart{
		ID:        model.ID,
		SessionID: model.SessionID,
		Status:    domain.Status(model.Status),
		Items:     items,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.CustomerID.Valid {
		id := model.CustomerID.UUID
		cart.CustomerID = &id
	}
	return cart
}
