package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type customerService struct {
	customers ports.CustomerRepository
	log       zerolog.Logger
}

// NewCustomerService returns a CustomerService that rolls order events up
// into per-customer totals.
func NewCustomerService(customers ports.CustomerRepository, log zerolog.Logger) ports.CustomerService {
	return &customerService{customers: customers, log: log}
}

func (s *customerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// HandleOrder adds one order to its customer's totals, creating the customer
// on first sight.
func (s *customerService) HandleOrder(ctx context.Context, event ports.OrderEvent) error {
	o := event.Order
	c, err := s.customers.Upsert(ctx, o.CustomerName, func(c *domain.Customer) {
		c.TotalOrders++
		c.TotalSpent = domain.FromCents(domain.Cents(c.TotalSpent) + domain.Cents(o.Amount))
	})
	if err != nil {
		return fmt.Errorf("handle order %s: %w", o.ID, err)
	}

	s.log.Debug().
		Str("order_id", o.ID).
		Str("customer", c.Name).
		Int("total_orders", c.TotalOrders).
		Msg("customer totals updated")
	return nil
}
