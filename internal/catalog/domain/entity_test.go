package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func validProduct() *Product {
	return &Product{
		Name:             "Cherry Tomatoes",
		PricePerUnit:     d("4.50"),
		StockQuantity:    d("50"),
		MinOrderQuantity: d("1"),
		IsActive:         true,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validProduct().Validate())

	p := validProduct()
	p.Name = ""
	assert.ErrorIs(t, p.Validate(), ErrNameRequired)

	p = validProduct()
	p.PricePerUnit = decimal.Zero
	assert.ErrorIs(t, p.Validate(), ErrInvalidPrice)

	p = validProduct()
	p.StockQuantity = d("-1")
	assert.ErrorIs(t, p.Validate(), ErrNegativeStock)

	p = validProduct()
	p.MinOrderQuantity = decimal.Zero
	assert.ErrorIs(t, p.Validate(), ErrInvalidMinOrder)

	p = validProduct()
	max := d("0.5")
	p.MaxOrderQuantity = &max
	assert.ErrorIs(t, p.Validate(), ErrMaxBelowMin)

	p = validProduct()
	from := time.Now()
	until := from.AddDate(0, -1, 0)
	p.AvailableFrom = &from
	p.AvailableUntil = &until
	assert.ErrorIs(t, p.Validate(), ErrWindowInverted)
}

func TestAvailableOn(t *testing.T) {
	now := time.Now()

	p := validProduct()
	assert.True(t, p.AvailableOn(now))

	p.IsActive = false
	assert.False(t, p.AvailableOn(now))

	p = validProduct()
	future := now.AddDate(0, 1, 0)
	p.AvailableFrom = &future
	assert.False(t, p.AvailableOn(now))

	p = validProduct()
	past := now.AddDate(0, -1, 0)
	p.AvailableUntil = &past
	assert.False(t, p.AvailableOn(now))

	// Season in progress
	p = validProduct()
	start := now.AddDate(0, -1, 0)
	end := now.AddDate(0, 1, 0)
	p.AvailableFrom = &start
	p.AvailableUntil = &end
	assert.True(t, p.AvailableOn(now))
}

func TestAvailableOnWindowEdgesInclusive(t *testing.T) {
	// Window bounds are stored as midnight timestamps; a product whose
	// season ends today is still sellable later that day, and one whose
	// season starts today is sellable from the morning.
	afternoon := time.Date(2026, time.August, 28, 14, 30, 0, 0, time.UTC)
	today := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

	p := validProduct()
	p.AvailableUntil = &today
	assert.True(t, p.AvailableOn(afternoon))

	p = validProduct()
	p.AvailableFrom = &today
	assert.True(t, p.AvailableOn(afternoon))

	p = validProduct()
	p.AvailableFrom = &today
	p.AvailableUntil = &today
	assert.True(t, p.AvailableOn(afternoon))

	yesterday := today.AddDate(0, 0, -1)
	p = validProduct()
	p.AvailableUntil = &yesterday
	assert.False(t, p.AvailableOn(afternoon))
}
