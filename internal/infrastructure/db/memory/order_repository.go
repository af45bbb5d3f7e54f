package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// OrderRepository implements ports.OrderRepository as an append-only slice.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []domain.Order
	ids    map[string]struct{}
	seq    atomic.Int64
}

// NewOrderRepository seeds the ledger. The sequence starts after the seeded
// orders and skips any id already present.
func NewOrderRepository(seed ...domain.Order) *OrderRepository {
	r := &OrderRepository{ids: make(map[string]struct{})}
	for _, o := range seed {
		r.orders = append(r.orders, o)
		r.ids[o.ID] = struct{}{}
	}
	r.seq.Store(int64(len(seed)))
	return r
}

func (r *OrderRepository) List(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = cloneOrder(o)
	}
	return out, nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			out := cloneOrder(o)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepository) Append(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		o.ID = fmt.Sprintf("ORD-%03d", r.seq.Add(1))
		if _, taken := r.ids[o.ID]; !taken {
			break
		}
	}
	o = cloneOrder(o)
	r.orders = append(r.orders, o)
	r.ids[o.ID] = struct{}{}

	out := cloneOrder(o)
	return &out, nil
}

func cloneOrder(o domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}
