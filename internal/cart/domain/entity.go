package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the cart lifecycle status
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusAbandoned Status = "ABANDONED"
	StatusConverted Status = "CONVERTED"
)

// ParseStatus parses a cart status string
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusAbandoned, StatusConverted:
		return Status(s), true
	}
	return "", false
}

// CartItem is one product line in a cart. UnitPrice is the price observed
// when the item was added and is display-only; checkout reprices against
// the live catalog.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cart is a pre-order working set, keyed by session so anonymous visitors
// can build one before identifying themselves
type Cart struct {
	ID         uuid.UUID
	SessionID  string
	CustomerID *uuid.UUID
	Status     Status
	Items      []CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FindItem returns the cart line for a product, or nil
func (c *Cart) FindItem(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItemByID returns the cart line with the given ID, or nil
func (c *Cart) FindItemByID(id uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// Subtotal sums quantity times the price captured at add time. The figure
// is advisory; the order created at checkout is the authoritative total.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total
}

// Mutable reports whether the cart still accepts changes
func (c *Cart) Mutable() bool {
	return c.Status == StatusActive
}
