package domain

import (
	"github.com/google/uuid"

	"fieldtoyou/pkg/errors"
)

// Domain-specific errors
var (
	ErrNameRequired    = errors.NewValidation("product name is required", nil)
	ErrInvalidPrice    = errors.NewValidation("price_per_unit must be greater than 0", nil)
	ErrNegativeStock   = errors.NewValidation("stock_quantity cannot be negative", nil)
	ErrInvalidMinOrder = errors.NewValidation("min_order_quantity must be greater than 0", nil)
	ErrMaxBelowMin     = errors.NewValidation("max_order_quantity cannot be below min_order_quantity", nil)
	ErrWindowInverted  = errors.NewValidation("available_until cannot be before available_from", nil)
)

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id uuid.UUID) error {
	return errors.NewNotFound("product", id)
}

// NewStockBelowZero rejects a stock adjustment that would make stock
// negative
func NewStockBelowZero(id uuid.UUID) error {
	return errors.NewConflict("stock adjustment would make stock_quantity negative for product " + id.String())
}
