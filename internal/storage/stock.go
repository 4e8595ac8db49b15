package storage

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DecrementStock conditionally subtracts qty from a product's stock. The
// WHERE clause carries the non-negativity invariant: concurrent orders
// racing on the same product serialize on the row update and the loser
// sees zero rows affected instead of negative stock.
func DecrementStock(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := tx.Model(&ProductModel{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RestoreStock adds qty back to a product's stock (order cancellation,
// restock).
func RestoreStock(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := tx.Model(&ProductModel{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
