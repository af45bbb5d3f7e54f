package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// OrderInput carries an order created directly through the ledger API.
type OrderInput struct {
	CustomerName string
	Date         string
	Amount       float64
	Status       string
	Lines        []domain.OrderLine
}

type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	// Create is the admin-gated ledger write.
	Create(ctx context.Context, token string, in OrderInput) (*domain.Order, error)
	// Record appends a system-originated order, such as a checkout.
	Record(ctx context.Context, o domain.Order) (*domain.Order, error)
}

// OrderEvent is published after an order is appended to the ledger.
type OrderEvent struct {
	Order domain.Order
}

// OrderEventHandler consumes order events.
type OrderEventHandler interface {
	HandleOrder(ctx context.Context, event OrderEvent) error
}

// OrderPublisher accepts order events for asynchronous fan-out.
type OrderPublisher interface {
	Publish(event OrderEvent)
}

// TopProduct is a single entry in the analytics ranking.
type TopProduct struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

// AnalyticsSummary is recomputed from the ledger on every request.
type AnalyticsSummary struct {
	TotalSales  float64      `json:"totalSales"`
	TotalOrders int          `json:"totalOrders"`
	TopProducts []TopProduct `json:"topProducts"`
}

type CustomerService interface {
	List(ctx context.Context) ([]domain.Customer, error)
	OrderEventHandler
}

type AnalyticsService interface {
	Summary(ctx context.Context) (*AnalyticsSummary, error)
}

// SettingsPatch carries a partial settings update.
type SettingsPatch struct {
	StoreName      *string
	CurrencySymbol *string
}

// SettingsView is the public settings document.
type SettingsView struct {
	StoreName      string   `json:"storeName"`
	CurrencySymbol string   `json:"currencySymbol"`
	Categories     []string `json:"categories"`
}

type SettingsService interface {
	Get(ctx context.Context) (*SettingsView, error)
	Update(ctx context.Context, token string, patch SettingsPatch) (*SettingsView, error)
}
