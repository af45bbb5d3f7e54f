package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Image       string
}

// CatalogService exposes products and categories. Mutations take the
// caller's session token and are admin-only.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, token string, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, token string, id int64) error

	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, token, name string) error
	RemoveCategory(ctx context.Context, token, name string) error
}
