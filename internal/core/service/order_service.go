package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

type orderService struct {
	orders    ports.OrderRepository
	guard     ports.AccessGuard
	publisher ports.OrderPublisher
	now       func() time.Time
	log       zerolog.Logger
}

// NewOrderService returns the order ledger. publisher may be nil, in which
// case recorded orders are not fanned out.
func NewOrderService(
	orders ports.OrderRepository,
	guard ports.AccessGuard,
	publisher ports.OrderPublisher,
	log zerolog.Logger,
) ports.OrderService {
	return &orderService{
		orders:    orders,
		guard:     guard,
		publisher: publisher,
		now:       time.Now,
		log:       log,
	}
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

func (s *orderService) Create(ctx context.Context, token string, in ports.OrderInput) (*domain.Order, error) {
	session, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("create order: %w: customer name is required", domain.ErrInvalidInput)
	}
	if !(in.Amount >= 0) {
		return nil, fmt.Errorf("create order: %w: amount must be non-negative", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	date := in.Date
	if date == "" {
		date = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("create order: %w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = domain.OrderStatusProcessing
	}

	recorded, err := s.record(ctx, domain.Order{
		CustomerName: name,
		Date:         date,
		Amount:       in.Amount,
		Status:       status,
		Lines:        in.Lines,
		CreatedAt:    now,
	}, "admin")
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info().Str("order_id", recorded.ID).Str("by", session.Username).Msg("order created")
	return recorded, nil
}

// Record appends an order produced by the system itself. It is not guarded;
// callers are trusted components such as checkout.
func (s *orderService) Record(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now().UTC()
	}
	if o.Date == "" {
		o.Date = o.CreatedAt.Format(dateLayout)
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusProcessing
	}
	recorded, err := s.record(ctx, o, "checkout")
	if err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	return recorded, nil
}

func (s *orderService) record(ctx context.Context, o domain.Order, source string) (*domain.Order, error) {
	recorded, err := s.orders.Append(ctx, o)
	if err != nil {
		return nil, err
	}
	metrics.OrdersRecordedTotal.WithLabelValues(source).Inc()

	if s.publisher != nil {
		s.publisher.Publish(ports.OrderEvent{Order: *recorded})
	}
	return recorded, nil
}
