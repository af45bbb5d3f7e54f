package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// SessionCookie carries the session token between requests.
const SessionCookie = "session_token"

// Context keys set by Session.
const (
	ctxToken   = "token"
	ctxSession = "session"
)

// SessionToken returns the caller's token from the Authorization bearer
// header or, failing that, the session cookie. It returns "" when neither is
// present.
func SessionToken(c echo.Context) string {
	if tok, ok := c.Get(ctxToken).(string); ok && tok != "" {
		return tok
	}
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// CurrentSession returns the session resolved by Session or RequireRole.
func CurrentSession(c echo.Context) (*domain.Session, bool) {
	s, ok := c.Get(ctxSession).(*domain.Session)
	return s, ok && s != nil
}

// Session resolves the caller's session, if any, and stores the token and
// session on the context. Anonymous requests pass through; gating is left to
// RequireRole and the services.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				return next(c)
			}
			c.Set(ctxToken, token)

			if session, ok := auth.ResolveSession(c.Request().Context(), token); ok {
				c.Set(ctxSession, session)
			}
			return next(c)
		}
	}
}
