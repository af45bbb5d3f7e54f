package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/storefront/storefront-api/internal/api/handler"
	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	infrahttp "github.com/storefront/storefront-api/internal/infrastructure/http"
	"github.com/storefront/storefront-api/internal/infrastructure/http/handlers"
)

// Deps are the services and settings the router is built from.
type Deps struct {
	Auth      ports.AuthService
	Guard     ports.AccessGuard
	Catalog   ports.CatalogService
	Cart      ports.CartService
	Orders    ports.OrderService
	Customers ports.CustomerService
	Analytics ports.AnalyticsService
	Settings  ports.SettingsService

	Cookies handler.CookieConfig
	// LoginRate is the sustained login attempts per second per client IP.
	// Zero disables the limiter.
	LoginRate  float64
	LoginBurst int
	// Checks feed the readiness probe.
	Checks []handlers.Check
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Session(d.Auth))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops routes (no session required) ---
	infrahttp.RegisterProbes(e, d.Checks...)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	admin := middleware.RequireRole(d.Guard, domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies, d.Log)
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login, loginLimiter(d.LoginRate, d.LoginBurst)...)
	auth.POST("/register", authHandler.Register)
	auth.POST("/logout", authHandler.Logout)

	// Catalog mutations are gated inside the service.
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	catalog := e.Group("/catalog")
	catalog.GET("/products", catalogHandler.ListProducts)
	catalog.GET("/products/:id", catalogHandler.GetProduct)
	catalog.POST("/products", catalogHandler.CreateProduct)
	catalog.PUT("/products/:id", catalogHandler.UpdateProduct)
	catalog.DELETE("/products/:id", catalogHandler.DeleteProduct)
	catalog.GET("/categories", catalogHandler.ListCategories)
	catalog.POST("/categories", catalogHandler.AddCategory)
	catalog.DELETE("/categories", catalogHandler.RemoveCategory)
	catalog.DELETE("/categories/:name", catalogHandler.RemoveCategory)

	cartHandler := handler.NewCartHandler(d.Cart, d.Cookies)
	cart := e.Group("/cart")
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items/:productId", cartHandler.SetQuantity)
	cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	cart.POST("/checkout", cartHandler.Checkout)
	e.POST("/checkout", cartHandler.Checkout)

	orderHandler := handler.NewOrderHandler(d.Orders, d.Customers, d.Analytics)
	e.GET("/orders", orderHandler.List, admin)
	e.GET("/orders/:id", orderHandler.Get, admin)
	e.POST("/orders", orderHandler.Create)
	e.GET("/customers", orderHandler.Customers, admin)
	e.GET("/analytics", orderHandler.Analytics, admin)

	settingsHandler := handler.NewSettingsHandler(d.Settings)
	e.GET("/settings", settingsHandler.Get)
	e.PUT("/settings", settingsHandler.Update)

	return e
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64, burst int) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})}
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
