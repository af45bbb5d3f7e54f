package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/infrastructure/db/memory"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

// stubGuard maps fixed tokens to roles.
type stubGuard struct{}

func (g *stubGuard) RequireRole(_ context.Context, token string, minimum domain.Role) (*domain.Session, error) {
	var role domain.Role
	switch token {
	case adminToken:
		role = domain.RoleAdmin
	case userToken:
		role = domain.RoleUser
	default:
		return nil, domain.ErrUnauthenticated
	}
	if !role.Satisfies(minimum) {
		return nil, domain.ErrForbidden
	}
	return &domain.Session{ID: token, Username: string(role), Role: role}, nil
}

func newTestCatalog(seed ...domain.Product) (ports.CatalogService, *memory.ProductRepository, *memory.CategoryRepository) {
	products := memory.NewProductRepository(seed...)
	categories := memory.NewCategoryRepository("Clothing", "Footwear", "Accessories")
	return NewCatalogService(products, categories, &stubGuard{}, zerolog.Nop()), products, categories
}

func TestCatalogService_CreateProduct_RoleGating(t *testing.T) {
	svc, products, _ := newTestCatalog()
	ctx := context.Background()
	in := ports.ProductInput{Name: "Hat", Price: 9.5, Category: "Accessories"}

	if _, err := svc.CreateProduct(ctx, "", in); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.CreateProduct(ctx, userToken, in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if list, _ := products.List(ctx); len(list) != 0 {
		t.Fatalf("rejected calls must not touch the catalog, got %d products", len(list))
	}

	created, err := svc.CreateProduct(ctx, adminToken, in)
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
	if created.ID == 0 || created.Name != "Hat" {
		t.Fatalf("unexpected product: %+v", created)
	}
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	svc, products, _ := newTestCatalog()
	ctx := context.Background()

	for _, in := range []ports.ProductInput{
		{Name: "", Price: 1},
		{Name: "  ", Price: 1},
		{Name: "Hat", Price: -0.01},
		{Name: "Hat", Price: math.NaN()},
		{Name: "Hat", Price: domain.MaxPrice + 0.01},
		{Name: "Hat", Price: 1e300},
	} {
		if _, err := svc.CreateProduct(ctx, adminToken, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("CreateProduct(%+v): expected ErrInvalidInput, got %v", in, err)
		}
	}
	if list, _ := products.List(ctx); len(list) != 0 {
		t.Fatalf("invalid input must not create products, got %d", len(list))
	}
}

func TestCatalogService_IDsNeverReused(t *testing.T) {
	svc, _, _ := newTestCatalog(domain.Product{ID: 1, Name: "T-Shirt", Price: 19.99})
	ctx := context.Background()

	a, _ := svc.CreateProduct(ctx, adminToken, ports.ProductInput{Name: "A", Price: 1})
	if a.ID != 2 {
		t.Fatalf("expected id 2 after seed, got %d", a.ID)
	}
	if err := svc.DeleteProduct(ctx, adminToken, a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	b, _ := svc.CreateProduct(ctx, adminToken, ports.ProductInput{Name: "B", Price: 1})
	if b.ID == a.ID {
		t.Fatalf("deleted id %d was reused", a.ID)
	}
}

func TestCatalogService_CreateProduct_ConcurrentIDsUnique(t *testing.T) {
	svc, products, _ := newTestCatalog()
	ctx := context.Background()

	const n = 32
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.CreateProduct(ctx, adminToken, ports.ProductInput{Name: fmt.Sprintf("P%d", i), Price: 1})
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			ids <- p.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if list, _ := products.List(ctx); len(list) != n || len(seen) != n {
		t.Fatalf("expected %d products with unique ids, got %d products and %d ids", n, len(list), len(seen))
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	svc, _, _ := newTestCatalog(domain.Product{ID: 1, Name: "T-Shirt", Price: 19.99, Category: "Clothing"})
	ctx := context.Background()

	price := 24.5
	updated, err := svc.UpdateProduct(ctx, adminToken, 1, domain.ProductPatch{Price: &price})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Price != 24.5 || updated.Name != "T-Shirt" {
		t.Fatalf("unexpected product: %+v", updated)
	}

	if _, err := svc.UpdateProduct(ctx, adminToken, 99, domain.ProductPatch{Price: &price}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateProduct(ctx, userToken, 1, domain.ProductPatch{Price: &price}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	for _, bad := range []float64{-1, 1e300, math.Inf(1)} {
		if _, err := svc.UpdateProduct(ctx, adminToken, 1, domain.ProductPatch{Price: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("price %v: expected ErrInvalidInput, got %v", bad, err)
		}
	}
	if p, _ := svc.GetProduct(ctx, 1); p.Price != 24.5 {
		t.Fatalf("rejected updates must not change the price, got %v", p.Price)
	}
}

func TestCatalogService_DeleteProduct_Idempotent(t *testing.T) {
	svc, _, _ := newTestCatalog(domain.Product{ID: 1, Name: "T-Shirt", Price: 19.99})
	ctx := context.Background()

	if err := svc.DeleteProduct(ctx, adminToken, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteProduct(ctx, adminToken, 1); err != nil {
		t.Fatalf("second delete should succeed, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_Categories_SetSemantics(t *testing.T) {
	svc, _, _ := newTestCatalog()
	ctx := context.Background()

	if err := svc.AddCategory(ctx, adminToken, "Bags"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddCategory(ctx, adminToken, "Bags"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := svc.AddCategory(ctx, adminToken, " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.AddCategory(ctx, userToken, "Hats"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	names, _ := svc.ListCategories(ctx)
	want := []string{"Clothing", "Footwear", "Accessories", "Bags"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	if err := svc.RemoveCategory(ctx, adminToken, "Bags"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.RemoveCategory(ctx, adminToken, "Bags"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
