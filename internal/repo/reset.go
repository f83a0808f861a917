package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/models"
)

type ResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	FindByHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error)
	// MarkUsed flips used conditioned on the row still being unused,
	// so concurrent redemptions of the same token settle at most once.
	// Returns false when another redemption already won.
	MarkUsed(ctx context.Context, id uint) (bool, error)
}

type resetRepoImpl struct {
	db *gorm.DB
}

func NewResetRepository(db *gorm.DB) ResetRepository {
	return &resetRepoImpl{db: db}
}

func (r *resetRepoImpl) Create(ctx context.Context, reset *models.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *resetRepoImpl) FindByHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).Where("token = ?", tokenHash).First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *resetRepoImpl) MarkUsed(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PasswordReset{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
