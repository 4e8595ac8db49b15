package storage

import (
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens the database named by TEST_DATABASE_DSN, skipping when it
// is unset. The stock guard lives in the WHERE clause of a conditional
// UPDATE, so only a real Postgres can exercise it.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, stock string) *ProductModel {
	t.Helper()

	farmer := &FarmerModel{
		Name:         "Noa",
		FarmName:     "Hilltop Farm",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, conn.Create(farmer).Error)
	category := &CategoryModel{Name: "Vegetables " + uuid.NewString()}
	require.NoError(t, conn.Create(category).Error)
	unit := &UnitLabelModel{Name: "kg " + uuid.NewString()}
	require.NoError(t, conn.Create(unit).Error)

	product := &ProductModel{
		FarmerID:         farmer.ID,
		CategoryID:       category.ID,
		UnitLabelID:      unit.ID,
		Name:             "Cherry Tomatoes",
		PricePerUnit:     decimal.NewFromInt(4),
		StockQuantity:    decimal.RequireFromString(stock),
		MinOrderQuantity: decimal.NewFromInt(1),
		IsActive:         true,
	}
	require.NoError(t, conn.Create(product).Error)

	t.Cleanup(func() {
		conn.Delete(&ProductModel{}, "id = ?", product.ID)
		conn.Delete(&FarmerModel{}, "id = ?", farmer.ID)
		conn.Delete(&CategoryModel{}, "id = ?", category.ID)
		conn.Delete(&UnitLabelModel{}, "id = ?", unit.ID)
	})
	return product
}

func currentStock(t *testing.T, conn *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var got ProductModel
	require.NoError(t, conn.First(&got, "id = ?", id).Error)
	return got.StockQuantity
}

// Two orders racing on the same product must serialize on the row update:
// exactly one wins, and stock never goes negative.
func TestDecrementStockConcurrent(t *testing.T) {
	conn := testDB(t)
	product := seedProduct(t, conn, "50")

	qty := decimal.NewFromInt(30)
	results := make([]bool, 2)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			err := conn.Transaction(func(tx *gorm.DB) error {
				ok, err := DecrementStock(tx, product.ID, qty)
				results[i] = ok
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.True(t, currentStock(t, conn, product.ID).Equal(decimal.NewFromInt(20)))
}

func TestDecrementStockGuard(t *testing.T) {
	conn := testDB(t)
	product := seedProduct(t, conn, "5")

	ok, err := DecrementStock(conn, product.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, currentStock(t, conn, product.ID).Equal(decimal.NewFromInt(5)))

	// Draining to exactly zero is allowed
	ok, err = DecrementStock(conn, product.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, currentStock(t, conn, product.ID).IsZero())
}

func TestRestoreStock(t *testing.T) {
	conn := testDB(t)
	product := seedProduct(t, conn, "2")

	ok, err := RestoreStock(conn, product.ID, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, currentStock(t, conn, product.ID).Equal(decimal.NewFromInt(5)))
}

// A restore against a product row that no longer exists affects zero rows
// and must say so, so cancellation can abort instead of dropping the
// restoration silently.
func TestRestoreStockMissingProduct(t *testing.T) {
	conn := testDB(t)

	ok, err := RestoreStock(conn, uuid.New(), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.False(t, ok)
}
