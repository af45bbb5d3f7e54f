package memory

import (
	"context"
	"sync"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CustomerRepository implements ports.CustomerRepository. Customers are
// keyed by exact name and listed in creation order.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers []domain.Customer
	byName    map[string]int
	lastID    int64
}

func NewCustomerRepository(seed ...domain.Customer) *CustomerRepository {
	r := &CustomerRepository{byName: make(map[string]int)}
	for _, c := range seed {
		r.byName[c.Name] = len(r.customers)
		r.customers = append(r.customers, c)
		if c.ID > r.lastID {
			r.lastID = c.ID
		}
	}
	return r
}

func (r *CustomerRepository) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}

func (r *CustomerRepository) Upsert(_ context.Context, name string, fn func(c *domain.Customer)) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byName[name]
	if !ok {
		r.lastID++
		i = len(r.customers)
		r.customers = append(r.customers, domain.Customer{ID: r.lastID, Name: name})
		r.byName[name] = i
	}

	id := r.customers[i].ID
	fn(&r.customers[i])
	r.customers[i].ID = id
	r.customers[i].Name = name

	out := r.customers[i]
	return &out, nil
}
