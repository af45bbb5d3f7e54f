package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const defaultCurrencySymbol = "₱"

// CartConfig tunes the cart engine.
type CartConfig struct {
	// CheckoutDelay simulates payment processing. Zero skips it.
	CheckoutDelay time.Duration
}

type cartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	orders   ports.OrderService
	settings ports.SettingsRepository
	delay    time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewCartService returns the cart engine. Totals are always recomputed from
// current catalog prices; a line whose product has been deleted is reported
// as unavailable and left out of the total.
func NewCartService(
	carts ports.CartRepository,
	products ports.ProductRepository,
	orders ports.OrderService,
	settings ports.SettingsRepository,
	cfg CartConfig,
	log zerolog.Logger,
) ports.CartService {
	return &cartService{
		carts:    carts,
		products: products,
		orders:   orders,
		settings: settings,
		delay:    cfg.CheckoutDelay,
		now:      time.Now,
		log:      log,
	}
}

func (s *cartService) Get(ctx context.Context, cartID string) (*ports.CartView, error) {
	if cartID == "" {
		return nil, fmt.Errorf("get cart: %w: cart id is required", domain.ErrInvalidInput)
	}
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return s.price(ctx, cart)
}

func (s *cartService) Total(ctx context.Context, cartID string) (float64, error) {
	view, err := s.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return view.Total, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID string, productID int64, delta int) (*ports.CartView, error) {
	if cartID == "" {
		return nil, fmt.Errorf("add item: %w: cart id is required", domain.ErrInvalidInput)
	}
	if delta <= 0 || delta > domain.MaxLineQuantity {
		return nil, fmt.Errorf("add item: %w: quantity must be between 1 and %d", domain.ErrInvalidInput, domain.MaxLineQuantity)
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, fmt.Errorf("add item: product %d: %w", productID, err)
	}

	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		return c.Add(productID, delta, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	metrics.CartOperationsTotal.WithLabelValues("add").Inc()
	return s.price(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID string, productID int64) (*ports.CartView, error) {
	if cartID == "" {
		return nil, fmt.Errorf("remove item: %w: cart id is required", domain.ErrInvalidInput)
	}
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		c.Remove(productID, s.now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}
	metrics.CartOperationsTotal.WithLabelValues("remove").Inc()
	return s.price(ctx, cart)
}

func (s *cartService) SetQuantity(ctx context.Context, cartID string, productID int64, qty int) (*ports.CartView, bool, error) {
	if cartID == "" {
		return nil, false, fmt.Errorf("set quantity: %w: cart id is required", domain.ErrInvalidInput)
	}
	var changed bool
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		var err error
		changed, err = c.SetQuantity(productID, qty, s.now())
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("set quantity: %w", err)
	}
	metrics.CartOperationsTotal.WithLabelValues("set_quantity").Inc()

	view, err := s.price(ctx, cart)
	if err != nil {
		return nil, false, err
	}
	return view, changed, nil
}

func (s *cartService) Clear(ctx context.Context, cartID string) error {
	if cartID == "" {
		return fmt.Errorf("clear cart: %w: cart id is required", domain.ErrInvalidInput)
	}
	if _, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		c.Clear(s.now())
		return nil
	}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	metrics.CartOperationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// Checkout validates the cart against the shipping form, simulates payment
// and records the order. The cart is marked in flight for the whole call, so
// a concurrent checkout or mutation of the same cart fails with
// domain.ErrConflict. The cart keeps its lines afterwards; checking out the
// same content again is a conflict until the cart changes.
func (s *cartService) Checkout(ctx context.Context, cartID string, info ports.ShippingInfo) (res *ports.CheckoutResult, err error) {
	start := s.now()
	defer func() {
		switch {
		case err == nil:
			metrics.CheckoutsTotal.WithLabelValues("success").Inc()
			metrics.CheckoutDuration.Observe(s.now().Sub(start).Seconds())
		case errors.Is(err, domain.ErrConflict):
			metrics.CheckoutsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			metrics.CheckoutsTotal.WithLabelValues("cancelled").Inc()
		default:
			metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		}
	}()

	name := strings.TrimSpace(info.Name)
	address := strings.TrimSpace(info.Address)
	method := strings.TrimSpace(info.PaymentMethod)
	if cartID == "" || name == "" || address == "" || method == "" {
		return nil, fmt.Errorf("checkout: %w: name, address and payment method are required", domain.ErrInvalidInput)
	}

	cart, err := s.carts.BeginCheckout(ctx, cartID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("checkout: %w: a checkout of this cart is already in progress", err)
		}
		return nil, fmt.Errorf("checkout: %w", err)
	}
	var orderID string
	defer func() {
		if ferr := s.carts.FinishCheckout(context.WithoutCancel(ctx), cartID, orderID); ferr != nil {
			s.log.Error().Err(ferr).Str("cart_id", cartID).Msg("failed to release checkout")
		}
	}()

	view, err := s.price(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	lines := orderLines(view)
	if len(lines) == 0 {
		return nil, fmt.Errorf("checkout: %w", domain.ErrEmptyCart)
	}
	if !(info.Total > 0) {
		return nil, fmt.Errorf("checkout: %w: total is required", domain.ErrInvalidCheckout)
	}
	if domain.Cents(info.Total) != domain.Cents(view.Total) {
		return nil, fmt.Errorf("checkout: %w: total %.2f does not match cart total %.2f", domain.ErrInvalidCheckout, info.Total, view.Total)
	}
	if cart.CheckedOutOrderID != "" {
		return nil, fmt.Errorf("checkout: %w: cart already checked out as %s", domain.ErrConflict, cart.CheckedOutOrderID)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("checkout: %w", ctx.Err())
		case <-timer.C:
		}
	}

	order, err := s.orders.Record(ctx, domain.Order{
		CustomerName:  name,
		Amount:        view.Total,
		Status:        domain.OrderStatusProcessing,
		Address:       address,
		PaymentMethod: method,
		Lines:         lines,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	orderID = order.ID

	s.log.Info().
		Str("cart_id", cartID).
		Str("order_id", order.ID).
		Float64("amount", order.Amount).
		Msg("checkout completed")

	return &ports.CheckoutResult{
		Order:   order,
		Message: fmt.Sprintf("Payment of %s%.2f processed with %s", s.currencySymbol(ctx), view.Total, method),
	}, nil
}

func (s *cartService) currencySymbol(ctx context.Context) string {
	settings, err := s.settings.Get(ctx)
	if err != nil || settings.CurrencySymbol == "" {
		return defaultCurrencySymbol
	}
	return settings.CurrencySymbol
}

// price joins the cart with one catalog snapshot and totals it in cents.
func (s *cartService) price(ctx context.Context, cart *domain.Cart) (*ports.CartView, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("price cart: %w", err)
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &ports.CartView{
		ID:                cart.ID,
		Lines:             make([]ports.CartLineView, 0, len(cart.Lines)),
		CheckedOutOrderID: cart.CheckedOutOrderID,
	}
	var total int64
	for _, l := range cart.Lines {
		p, ok := byID[l.ProductID]
		if !ok {
			view.Lines = append(view.Lines, ports.CartLineView{
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				Unavailable: true,
			})
			continue
		}
		lineCents, err := domain.LineCents(p.Price, l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("price cart: product %d: %w", p.ID, err)
		}
		if total, err = domain.AddCents(total, lineCents); err != nil {
			return nil, fmt.Errorf("price cart: %w", err)
		}
		view.Lines = append(view.Lines, ports.CartLineView{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
			LineTotal: domain.FromCents(lineCents),
			Image:     p.Image,
		})
	}
	view.Total = domain.FromCents(total)
	return view, nil
}

func orderLines(view *ports.CartView) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(view.Lines))
	for _, l := range view.Lines {
		if l.Unavailable {
			continue
		}
		lines = append(lines, domain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return lines
}
