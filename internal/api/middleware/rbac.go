package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// RequireRole enforces role-based access control through the access guard.
// Rejections surface as domain.ErrUnauthenticated or domain.ErrForbidden for
// the central error handler.
func RequireRole(guard ports.AccessGuard, minimum domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := guard.RequireRole(c.Request().Context(), SessionToken(c), minimum)
			if err != nil {
				return err
			}
			c.Set(ctxSession, session)
			return next(c)
		}
	}
}
