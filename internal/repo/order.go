package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/models"
)

var ErrIllegalTransition = errors.New("illegal status transition")

type OrderRepository interface {
	// Create persists the header and its items as one unit of work.
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	FindWithItems(ctx context.Context, orderID string) (*models.Order, error)
	// SetStatus flips estado from one value to another; it refuses any
	// transition outside the table in models and reports
	// gorm.ErrRecordNotFound when no row matched (unknown id or a
	// concurrent writer got there first).
	SetStatus(ctx context.Context, tx *gorm.DB, orderID string, from, to models.OrderStatus) error
	// MarkPending writes estado back to pendiente for any order that is
	// not currently paid. Paid orders are refused at the service layer;
	// the guard here keeps a racing confirmation from being undone.
	MarkPending(ctx context.Context, orderID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *orderRepoImpl) FindWithItems(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) SetStatus(ctx context.Context, tx *gorm.DB, orderID string, from, to models.OrderStatus) error {
	if !models.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND estado = ?", orderID, from).
		Update("estado", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepoImpl) MarkPending(ctx context.Context, orderID string) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND estado <> ?", orderID, models.StatusPaid).
		Update("estado", models.StatusPending)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
