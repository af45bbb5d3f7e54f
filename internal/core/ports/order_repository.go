package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// OrderRepository is the append-only order ledger.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	// Append assigns the next sequence id and stores the order.
	Append(ctx context.Context, o domain.Order) (*domain.Order, error)
}

// CustomerRepository keeps per-customer order totals.
type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	// Upsert applies fn to the customer with the given name, creating it first
	// when missing.
	Upsert(ctx context.Context, name string, fn func(c *domain.Customer)) (*domain.Customer, error)
}

// SettingsRepository holds the single settings record.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Put(ctx context.Context, s domain.Settings) error
}
