package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/storefront-api/internal/core/domain"
)

func TestProductRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepository(domain.Product{ID: 5, Name: "Seed"})

	p, err := r.Create(ctx, domain.Product{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.ID)

	require.NoError(t, r.Delete(ctx, 6))
	require.NoError(t, r.Delete(ctx, 6), "delete is idempotent")

	p, err = r.Create(ctx, domain.Product{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)

	_, err = r.Get(ctx, 6)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepository()

	const n = 64
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.Create(ctx, domain.Product{Name: "P"})
			assert.NoError(t, err)
			if p != nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]struct{}, n)
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n, "every create must get its own id")
	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestProductRepository_UpdatePatch(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepository(domain.Product{ID: 1, Name: "T-Shirt", Price: 19.99, Category: "Clothing"})

	price := 25.0
	p, err := r.Update(ctx, 1, domain.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", p.Name)
	assert.Equal(t, 25.0, p.Price)

	_, err = r.Update(ctx, 42, domain.ProductPatch{Price: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepository_SequenceSkipsTakenIDs(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepository(
		domain.Order{ID: "ORD-001"},
		domain.Order{ID: "ORD-003"},
	)

	first, err := r.Append(ctx, domain.Order{CustomerName: "Ana"})
	require.NoError(t, err)
	second, err := r.Append(ctx, domain.Order{CustomerName: "Ben"})
	require.NoError(t, err)

	assert.Equal(t, "ORD-004", first.ID, "ORD-002 would follow the seed count but ORD-003 forces a skip")
	assert.Equal(t, "ORD-005", second.ID)

	orders, _ := r.List(ctx)
	assert.Len(t, orders, 4)

	got, err := r.Get(ctx, "ORD-004")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.CustomerName)
}

func TestOrderRepository_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepository()
	_, _ = r.Append(ctx, domain.Order{Lines: []domain.OrderLine{{ProductID: 1, Quantity: 1}}})

	orders, _ := r.List(ctx)
	orders[0].Lines[0].Quantity = 50

	again, _ := r.List(ctx)
	assert.Equal(t, 1, again[0].Lines[0].Quantity)
}

func TestCategoryRepository_SetSemantics(t *testing.T) {
	ctx := context.Background()
	r := NewCategoryRepository("Clothing", "Footwear")

	assert.ErrorIs(t, r.Add(ctx, "Clothing"), domain.ErrAlreadyExists)
	require.NoError(t, r.Add(ctx, "Accessories"))
	require.NoError(t, r.Remove(ctx, "Footwear"))
	assert.ErrorIs(t, r.Remove(ctx, "Footwear"), domain.ErrNotFound)

	names, _ := r.List(ctx)
	assert.Equal(t, []string{"Clothing", "Accessories"}, names)
}

func TestCustomerRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	r := NewCustomerRepository(domain.Customer{ID: 2, Name: "Owen, Genon", TotalOrders: 3})

	c, err := r.Upsert(ctx, "Owen, Genon", func(c *domain.Customer) {
		c.TotalOrders++
		c.ID = 99
		c.Name = "renamed"
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ID)
	assert.Equal(t, "Owen, Genon", c.Name)
	assert.Equal(t, 4, c.TotalOrders)

	c, err = r.Upsert(ctx, "Ana", func(c *domain.Customer) { c.TotalOrders++ })
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)

	all, _ := r.List(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[1].Name)
}

func TestUserRepository_UniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u, err := r.Create(ctx, &domain.User{Username: "Admin", Email: "Admin@Example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = r.Create(ctx, &domain.User{Username: "admin"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	_, err = r.Create(ctx, &domain.User{Username: "other", Email: "admin@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	got, err := r.FindByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
