package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/models"
)

type ProductRepository interface {
	// PricesByIDs loads the catalog prices for a set of products in one
	// batch read. Missing ids are simply absent from the result.
	PricesByIDs(ctx context.Context, ids []string) (map[string]float64, error)
	// DeleteCascade removes the product's image rows, inventory slots
	// and finally the product itself as one unit of work.
	DeleteCascade(ctx context.Context, productID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) PricesByIDs(ctx context.Context, ids []string) (map[string]float64, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices, nil
}

func (r *productRepoImpl) DeleteCascade(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("producto_id = ?", productID).Delete(&models.InventoryItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", productID).Delete(&models.Product{}).Error
	})
}
