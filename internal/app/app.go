// Package app wires the storefront services together and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api"
	"github.com/storefront/storefront-api/internal/api/handler"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/core/service"
	"github.com/storefront/storefront-api/internal/infrastructure/breaker"
	"github.com/storefront/storefront-api/internal/infrastructure/db/memory"
	mongostore "github.com/storefront/storefront-api/internal/infrastructure/db/mongo"
	redisstore "github.com/storefront/storefront-api/internal/infrastructure/db/redis"
	"github.com/storefront/storefront-api/internal/infrastructure/http/handlers"
	"github.com/storefront/storefront-api/internal/infrastructure/queue"
	"github.com/storefront/storefront-api/internal/pkg/config"
)

const devAdminPassword = "admin123"

// App represents the application instance.
type App struct {
	config     *config.Config
	log        zerolog.Logger
	echo       *echo.Echo
	server     *http.Server
	dispatcher *queue.Dispatcher

	registry *prometheus.Registry

	dispatchCancel context.CancelFunc
	// closers release stores and sweepers in reverse order of creation.
	closers []func(ctx context.Context) error
}

// Option customises an App.
type Option func(*App)

// WithRegistry serves HTTP metrics from r instead of the default registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(a *App) { a.registry = r }
}

// New connects the configured stores, seeds demo data and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	a := &App{config: cfg, log: log}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.build(ctx); err != nil {
		_ = a.closeStores(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.config
	data := seeds(cfg.SeedData)

	var checks []handlers.Check

	// --- Identity: sessions and credentials ---
	sessions, sessionCheck, err := a.sessionStore(ctx)
	if err != nil {
		return err
	}
	if sessionCheck != nil {
		checks = append(checks, *sessionCheck)
	}

	users, userCheck, err := a.userRepository(ctx)
	if err != nil {
		return err
	}
	if userCheck != nil {
		checks = append(checks, *userCheck)
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		a.log.Warn().Msg("JWT_SECRET not set; using an ephemeral signing key")
	}
	authService := service.NewAuthService(users, sessions, service.AuthConfig{
		JWTSecret:  secret,
		SessionTTL: cfg.Auth.SessionTTL,
		Identifier: cfg.Auth.Identifier,
	}, a.log.With().Str("component", "auth").Logger())
	guard := service.NewAccessGuard(authService)

	if err := a.seedAdmin(ctx, authService); err != nil {
		return err
	}

	// --- Storefront collections ---
	products := memory.NewProductRepository(data.products...)
	categories := memory.NewCategoryRepository(data.categories...)
	orders := memory.NewOrderRepository(data.orders...)
	customers := memory.NewCustomerRepository(data.customers...)
	settings := memory.NewSettingsRepository(domain.Settings{
		StoreName:      cfg.Store.Name,
		CurrencySymbol: cfg.Store.CurrencySymbol,
	})
	carts := memory.NewCartRepository(cfg.Checkout.CartTTL, cfg.Checkout.SweepInterval)
	a.closers = append(a.closers, func(context.Context) error { return carts.Close() })

	customerService := service.NewCustomerService(customers, a.log.With().Str("component", "customers").Logger())

	dispatchCtx, cancel := context.WithCancel(context.Background())
	a.dispatchCancel = cancel
	a.dispatcher = queue.NewDispatcher(cfg.Checkout.DispatcherWorkers, customerService, a.log.With().Str("component", "dispatcher").Logger())
	a.dispatcher.Start(dispatchCtx)

	orderService := service.NewOrderService(orders, guard, a.dispatcher, a.log.With().Str("component", "orders").Logger())
	catalogService := service.NewCatalogService(products, categories, guard, a.log.With().Str("component", "catalog").Logger())
	cartService := service.NewCartService(carts, products, orderService, settings, service.CartConfig{
		CheckoutDelay: cfg.Checkout.Delay,
	}, a.log.With().Str("component", "cart").Logger())

	a.echo = api.NewRouter(api.Deps{
		Auth:      authService,
		Guard:     guard,
		Catalog:   catalogService,
		Cart:      cartService,
		Orders:    orderService,
		Customers: customerService,
		Analytics: service.NewAnalyticsService(orders),
		Settings:  service.NewSettingsService(settings, categories, guard, a.log.With().Str("component", "settings").Logger()),
		Cookies: handler.CookieConfig{
			Secure:     !cfg.IsDevelopment(),
			SessionTTL: cfg.Auth.SessionTTL,
			CartTTL:    cfg.Checkout.CartTTL,
		},
		LoginRate:  cfg.Auth.RateLimit,
		LoginBurst: cfg.Auth.RateBurst,
		Checks:     checks,
		Registry:   a.registry,
		Log:        a.log,
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.echo,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return nil
}

func (a *App) sessionStore(ctx context.Context) (ports.SessionStore, *handlers.Check, error) {
	cfg := a.config
	if cfg.Stores.Sessions != config.StoreRedis {
		store := memory.NewSessionStore(cfg.Checkout.SweepInterval)
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		return store, nil, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	a.log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions stored in redis")

	check := handlers.RedisCheck(rdb)
	return redisstore.NewSessionStore(rdb), &check, nil
}

func (a *App) userRepository(ctx context.Context) (ports.UserRepository, *handlers.Check, error) {
	cfg := a.config
	if cfg.Stores.Users != config.StoreMongo {
		return memory.NewUserRepository(), nil, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	a.closers = append(a.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })

	repo := mongostore.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	a.log.Info().Str("database", cfg.Mongo.Database).Msg("users stored in mongo")

	check := handlers.MongoCheck(db)
	guarded := breaker.NewUserRepository(repo, breaker.Config{
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}, a.log.With().Str("component", "breaker").Logger())
	return guarded, &check, nil
}

func (a *App) seedAdmin(ctx context.Context, auth *service.AuthService) error {
	admin := a.config.Admin
	password := admin.Password
	if password == "" {
		if !a.config.IsDevelopment() {
			a.log.Warn().Msg("ADMIN_PASSWORD not set; no admin account seeded")
			return nil
		}
		password = devAdminPassword
		a.log.Warn().Str("username", admin.Username).Msg("seeding development admin with the default password")
	}
	if err := auth.SeedAdmin(ctx, admin.Username, admin.Email, password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.log.Info().Str("addr", a.server.Addr).Str("env", a.config.Env).Msg("starting server")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.echo
}

// Shutdown drains in-flight requests, stops the order workers and releases
// the stores.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info().Msg("shutting down server")

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}
	if a.dispatchCancel != nil {
		a.dispatchCancel()
		a.dispatcher.Wait()
	}
	if err := a.closeStores(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeStores(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
