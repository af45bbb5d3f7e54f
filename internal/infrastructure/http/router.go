package http

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/infrastructure/http/handlers"
)

// RegisterProbes mounts the liveness and readiness probes on e. They sit
// outside the session middleware and need no auth.
func RegisterProbes(e *echo.Echo, checks ...handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
}
