package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/config"
	"github.com/undersea/storefront/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id, name string, price float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{ID: id, Name: name, Price: price}).Error)
}

func seedStock(t *testing.T, db *gorm.DB, productID, color, size string, stock int) {
	t.Helper()
	require.NoError(t, db.Create(&models.InventoryItem{
		ProductID: productID,
		Color:     color,
		Size:      size,
		Stock:     stock,
	}).Error)
}

func stockOf(t *testing.T, db *gorm.DB, productID, color, size string) int {
	t.Helper()
	var item models.InventoryItem
	require.NoError(t, db.
		Where("producto_id = ? AND color = ? AND talla = ?", productID, color, size).
		First(&item).Error)
	return item.Stock
}

func orderByID(t *testing.T, db *gorm.DB, id string) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Preload("Items").Where("id = ?", id).First(&order).Error)
	return order
}
