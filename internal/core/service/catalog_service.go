package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type catalogService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	guard      ports.AccessGuard
	log        zerolog.Logger
}

// NewCatalogService returns a CatalogService whose mutations require an admin
// session.
func NewCatalogService(
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	guard ports.AccessGuard,
	log zerolog.Logger,
) ports.CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
		guard:      guard,
		log:        log,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, token string, in ports.ProductInput) (*domain.Product, error) {
	session, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if err := validateProduct(name, in.Price); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	created, err := s.products.Create(ctx, domain.Product{
		Name:        name,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Image:       in.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info().Int64("product_id", created.ID).Str("by", session.Username).Msg("product created")
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, token string, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	session, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("update product: %w: name must not be empty", domain.ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.Price != nil && !validPrice(*patch.Price) {
		return nil, fmt.Errorf("update product: %w: price must be between 0 and %d", domain.ErrInvalidInput, domain.MaxPrice)
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.log.Info().Int64("product_id", id).Str("by", session.Username).Msg("product updated")
	return updated, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, token string, id int64) error {
	session, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.log.Info().Int64("product_id", id).Str("by", session.Username).Msg("product deleted")
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	names, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}

func (s *catalogService) AddCategory(ctx context.Context, token, name string) error {
	if _, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin); err != nil {
		return fmt.Errorf("add category: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("add category: %w: name must not be empty", domain.ErrInvalidInput)
	}
	if err := s.categories.Add(ctx, name); err != nil {
		return fmt.Errorf("add category %q: %w", name, err)
	}
	return nil
}

func (s *catalogService) RemoveCategory(ctx context.Context, token, name string) error {
	if _, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin); err != nil {
		return fmt.Errorf("remove category: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("remove category: %w: name must not be empty", domain.ErrInvalidInput)
	}
	if err := s.categories.Remove(ctx, name); err != nil {
		return fmt.Errorf("remove category %q: %w", name, err)
	}
	return nil
}

func validateProduct(name string, price float64) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !validPrice(price) {
		return fmt.Errorf("%w: price must be between 0 and %d", domain.ErrInvalidInput, domain.MaxPrice)
	}
	return nil
}

// validPrice also rejects NaN.
func validPrice(price float64) bool {
	return price >= 0 && price <= domain.MaxPrice
}
