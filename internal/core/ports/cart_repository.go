package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CartRepository stores carts keyed by an opaque id.
type CartRepository interface {
	// Get returns a snapshot; an unknown id yields an empty cart.
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	// Update runs fn under the cart's own lock, creating the cart if needed.
	// Changes made by fn are kept only when fn returns nil.
	Update(ctx context.Context, cartID string, fn func(c *domain.Cart) error) (*domain.Cart, error)
	// BeginCheckout marks a checkout in flight. It fails with
	// domain.ErrConflict when one is already running.
	BeginCheckout(ctx context.Context, cartID string) (*domain.Cart, error)
	// FinishCheckout clears the in-flight mark and, when orderID is set,
	// records it as the checked-out order on the cart.
	FinishCheckout(ctx context.Context, cartID, orderID string) error
}
