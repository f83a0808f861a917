package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/repo"
)

// Deindexer removes a product's document from the search index.
type Deindexer interface {
	DeleteProduct(ctx context.Context, productID string) error
}

type ProductService struct {
	Products repo.ProductRepository
	Search   Deindexer // nil disables deindexing
}

func NewProductService(db *gorm.DB, search Deindexer) *ProductService {
	return &ProductService{
		Products: repo.NewProductRepository(db),
		Search:   search,
	}
}

// Delete removes a product with its image rows and inventory slots in
// one transaction. The search index cleanup runs first and is best
// effort: a stale document must not block the deletion.
func (s *ProductService) Delete(ctx context.Context, productID string) error {
	l := logging.FromContext(ctx).With("svc", "product.delete", "product_id", productID)

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, productID); err != nil {
			l.Warn("product_deindex_failed", "error", err)
		}
	}

	if err := s.Products.DeleteCascade(ctx, productID); err != nil {
		l.Error("product_delete_error", "error", err)
		return fmt.Errorf("could not delete product: %w", err)
	}

	l.Info("product_delete_success")
	return nil
}
