package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/models"
)

var (
	ErrSlotNotFound      = errors.New("inventory slot not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type InventoryRepository interface {
	// Decrement takes qty units from one (product, color, size) slot,
	// but only while stock covers it. Run inside the caller's
	// transaction so a later line can roll earlier lines back.
	Decrement(ctx context.Context, tx *gorm.DB, productID, color, size string, qty int) error
	Find(ctx context.Context, productID, color, size string) (*models.InventoryItem, error)
}

type inventoryRepoImpl struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepoImpl{db: db}
}

func (r *inventoryRepoImpl) Decrement(ctx context.Context, tx *gorm.DB, productID, color, size string, qty int) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("producto_id = ? AND color = ? AND talla = ? AND stock >= ?", productID, color, size, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: tell a missing slot apart from a short one.
	var count int64
	if err := tx.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("producto_id = ? AND color = ? AND talla = ?", productID, color, size).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrSlotNotFound
	}
	return ErrInsufficientStock
}

func (r *inventoryRepoImpl) Find(ctx context.Context, productID, color, size string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND color = ? AND talla = ?", productID, color, size).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
