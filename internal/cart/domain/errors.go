package domain

import (
	"github.com/google/uuid"

	"fieldtoyou/pkg/errors"
)

// Domain-specific errors
var (
	ErrEmptyCheckout = errors.NewValidation("cart is empty", nil)
)

// NewCartNotFound creates a not found error with the cart ID
func NewCartNotFound(id uuid.UUID) error {
	return errors.NewNotFound("cart", id)
}

// NewItemNotFound creates a not found error for a cart line
func NewItemNotFound(id uuid.UUID) error {
	return errors.NewNotFound("cart item", id)
}

// NewCartNotActive rejects mutations on an abandoned or converted cart
func NewCartNotActive(id uuid.UUID, status Status) error {
	return errors.NewConflict("cart " + id.String() + " is " + string(status) + " and can no longer be modified")
}

// NewCustomerRequired rejects checkout on an anonymous cart
func NewCustomerRequired(id uuid.UUID) error {
	return errors.NewValidation("cart "+id.String()+" has no customer; checkout requires customer_id", nil)
}
