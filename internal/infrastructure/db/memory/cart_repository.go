package memory

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
)

type cartEntry struct {
	mu       sync.Mutex
	cart     domain.Cart
	inFlight bool
	removed  bool
	touched  time.Time
}

// CartRepository implements ports.CartRepository. The map has its own lock
// and each cart its own mutex, so work on one cart never blocks another.
// Carts idle for longer than ttl are swept.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*cartEntry

	ttl         time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

// NewCartRepository starts the idle sweep when both ttl and interval are
// positive.
func NewCartRepository(ttl, sweepInterval time.Duration) *CartRepository {
	r := &CartRepository{
		carts:       make(map[string]*cartEntry),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	if ttl > 0 && sweepInterval > 0 {
		r.wg.Add(1)
		go r.cleanupLoop(sweepInterval)
	}
	return r
}

func (r *CartRepository) lookup(cartID string) *cartEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.carts[cartID]
}

func (r *CartRepository) getOrCreate(cartID string) *cartEntry {
	if e := r.lookup(cartID); e != nil {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.carts[cartID]; ok {
		return e
	}
	e := &cartEntry{cart: domain.Cart{ID: cartID}, touched: r.now()}
	r.carts[cartID] = e
	return e
}

// lockEntry returns the live entry for cartID with its mutex held. An entry
// removed by the sweep between lookup and lock is replaced.
func (r *CartRepository) lockEntry(cartID string) *cartEntry {
	for {
		e := r.getOrCreate(cartID)
		e.mu.Lock()
		if !e.removed {
			return e
		}
		e.mu.Unlock()
	}
}

func (r *CartRepository) Get(_ context.Context, cartID string) (*domain.Cart, error) {
	e := r.lookup(cartID)
	if e == nil {
		return &domain.Cart{ID: cartID}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone(), nil
}

// Update fails with domain.ErrConflict while a checkout of the cart is in
// flight, so the checked-out content cannot change underneath it.
func (r *CartRepository) Update(_ context.Context, cartID string, fn func(c *domain.Cart) error) (*domain.Cart, error) {
	e := r.lockEntry(cartID)
	defer e.mu.Unlock()

	if e.inFlight {
		return nil, domain.ErrConflict
	}

	work := e.cart.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	e.cart = *work
	e.touched = r.now()
	return work.Clone(), nil
}

func (r *CartRepository) BeginCheckout(_ context.Context, cartID string) (*domain.Cart, error) {
	e := r.lockEntry(cartID)
	defer e.mu.Unlock()

	if e.inFlight {
		return nil, domain.ErrConflict
	}
	e.inFlight = true
	e.touched = r.now()
	return e.cart.Clone(), nil
}

func (r *CartRepository) FinishCheckout(_ context.Context, cartID, orderID string) error {
	e := r.lockEntry(cartID)
	defer e.mu.Unlock()

	e.inFlight = false
	if orderID != "" {
		e.cart.CheckedOutOrderID = orderID
	}
	e.touched = r.now()
	return nil
}

// Len reports the number of live carts.
func (r *CartRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}

func (r *CartRepository) cleanupLoop(interval time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *CartRepository) sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.carts {
		// Busy carts are skipped and picked up on a later tick.
		if !e.mu.TryLock() {
			continue
		}
		if !e.inFlight && e.touched.Before(cutoff) {
			e.removed = true
			delete(r.carts, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// Close stops the background sweep and waits for it to finish.
func (r *CartRepository) Close() error {
	r.closeOnce.Do(func() { close(r.stopCleanup) })
	r.wg.Wait()
	return nil
}
