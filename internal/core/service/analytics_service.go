package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const topProductsLimit = 3

type analyticsService struct {
	orders ports.OrderRepository
}

// NewAnalyticsService returns an AnalyticsService computed from the ledger.
func NewAnalyticsService(orders ports.OrderRepository) ports.AnalyticsService {
	return &analyticsService{orders: orders}
}

// Summary totals every order and ranks products by the revenue of their
// order lines. Orders without lines count toward the totals only.
func (s *analyticsService) Summary(ctx context.Context) (*ports.AnalyticsSummary, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}

	type tally struct {
		name  string
		cents int64
	}
	var total int64
	byProduct := make(map[int64]*tally)
	for _, o := range orders {
		total += domain.Cents(o.Amount)
		for _, l := range o.Lines {
			t, ok := byProduct[l.ProductID]
			if !ok {
				t = &tally{}
				byProduct[l.ProductID] = t
			}
			t.name = l.Name
			t.cents += domain.Cents(l.Price) * int64(l.Quantity)
		}
	}

	top := make([]ports.TopProduct, 0, len(byProduct))
	for id, t := range byProduct {
		top = append(top, ports.TopProduct{ID: id, Name: t.name, Sales: domain.FromCents(t.cents)})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Sales != top[j].Sales {
			return top[i].Sales > top[j].Sales
		}
		return top[i].ID < top[j].ID
	})
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}

	return &ports.AnalyticsSummary{
		TotalSales:  domain.FromCents(total),
		TotalOrders: len(orders),
		TopProducts: top,
	}, nil
}
