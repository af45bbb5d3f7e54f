package memory

import (
	"context"
	"sync"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CategoryRepository implements ports.CategoryRepository as an
// insertion-ordered set with exact-match names.
type CategoryRepository struct {
	mu    sync.RWMutex
	names []string
}

func NewCategoryRepository(seed ...string) *CategoryRepository {
	r := &CategoryRepository{}
	for _, name := range seed {
		if !r.contains(name) {
			r.names = append(r.names, name)
		}
	}
	return r
}

func (r *CategoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.names))
	copy(out, r.names)
	return out, nil
}

func (r *CategoryRepository) Add(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.contains(name) {
		return domain.ErrAlreadyExists
	}
	r.names = append(r.names, name)
	return nil
}

func (r *CategoryRepository) Remove(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *CategoryRepository) contains(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}
