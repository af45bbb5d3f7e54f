package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// ProductRepository owns the product collection and id assignment.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	// Create assigns a fresh id, ignoring any id set on p.
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository is an insertion-ordered set of category names.
type CategoryRepository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}
