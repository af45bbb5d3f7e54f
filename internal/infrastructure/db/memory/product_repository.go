package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// ProductRepository implements ports.ProductRepository. Ids come from a
// counter that only moves forward, so a deleted id is never handed out again.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	lastID   atomic.Int64
}

// NewProductRepository seeds the collection; seeded ids are kept as given
// and the counter starts past the highest one.
func NewProductRepository(seed ...domain.Product) *ProductRepository {
	r := &ProductRepository{}
	for _, p := range seed {
		r.products = append(r.products, p)
		if p.ID > r.lastID.Load() {
			r.lastID.Store(p.ID)
		}
	}
	return r
}

func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *ProductRepository) Get(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		p := r.products[i]
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepository) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.lastID.Add(1)
	r.products = append(r.products, p)
	return &p, nil
}

func (r *ProductRepository) Update(_ context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	updated := patch.Apply(r.products[i])
	updated.ID = id
	r.products[i] = updated
	return &updated, nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.products = append(r.products[:i], r.products[i+1:]...)
	}
	return nil
}

func (r *ProductRepository) indexOf(id int64) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}
