package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry with mutable stock
type Product struct {
	ID               uuid.UUID
	FarmerID         uuid.UUID
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
	IsActive         bool
	IsOrganic        bool
	AvailableFrom    *time.Time
	AvailableUntil   *time.Time
	ImageURL         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate validates the product entity
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if !p.PricePerUnit.IsPositive() {
		return ErrInvalidPrice
	}
	if p.StockQuantity.IsNegative() {
		return ErrNegativeStock
	}
	if !p.MinOrderQuantity.IsPositive() {
		return ErrInvalidMinOrder
	}
	if p.MaxOrderQuantity != nil && p.MaxOrderQuantity.LessThan(p.MinOrderQuantity) {
		return ErrMaxBelowMin
	}
	if p.AvailableFrom != nil && p.AvailableUntil != nil && p.AvailableUntil.Before(*p.AvailableFrom) {
		return ErrWindowInverted
	}
	return nil
}

// AvailableOn reports whether the product can be sold on the given date.
// The window bounds are dates and both ends are inclusive, so the
// comparison uses t's calendar day, not the full timestamp.
func (p *Product) AvailableOn(t time.Time) bool {
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
