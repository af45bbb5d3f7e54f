package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CartLineView is a cart line priced against the current catalog.
type CartLineView struct {
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
	Image       string  `json:"image,omitempty"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// CartView is the priced cart. Total excludes unavailable lines.
type CartView struct {
	ID                string         `json:"id"`
	Lines             []CartLineView `json:"lines"`
	Total             float64        `json:"total"`
	CheckedOutOrderID string         `json:"checkedOutOrderId,omitempty"`
}

// ShippingInfo is the checkout form. Total is the amount the client expects
// to pay and must match the cart.
type ShippingInfo struct {
	Name          string
	Address       string
	PaymentMethod string
	Total         float64
}

// CheckoutResult confirms a simulated payment.
type CheckoutResult struct {
	Order   *domain.Order
	Message string
}

type CartService interface {
	Get(ctx context.Context, cartID string) (*CartView, error)
	Total(ctx context.Context, cartID string) (float64, error)
	AddItem(ctx context.Context, cartID string, productID int64, delta int) (*CartView, error)
	RemoveItem(ctx context.Context, cartID string, productID int64) (*CartView, error)
	SetQuantity(ctx context.Context, cartID string, productID int64, qty int) (*CartView, bool, error)
	Clear(ctx context.Context, cartID string) error
	Checkout(ctx context.Context, cartID string, info ShippingInfo) (*CheckoutResult, error)
}
