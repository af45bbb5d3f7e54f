package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
)

// Cart identity travels in a header for API clients and a cookie for browsers.
const (
	CartHeader = "X-Cart-ID"
	CartCookie = "cart_id"
)

// CookieConfig controls the cookies set by the handlers.
type CookieConfig struct {
	// Secure marks cookies HTTPS-only. Disabled in development.
	Secure     bool
	SessionTTL time.Duration
	CartTTL    time.Duration
}

// sessionToken returns the caller's session token, if any.
func sessionToken(c echo.Context) string {
	return middleware.SessionToken(c)
}

// cartID returns the caller's cart id. A caller without one is given a fresh
// id, returned in both the header and the cookie.
func cartID(c echo.Context, cookies CookieConfig) string {
	if id := strings.TrimSpace(c.Request().Header.Get(CartHeader)); id != "" {
		return id
	}
	if cookie, err := c.Cookie(CartCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	c.Response().Header().Set(CartHeader, id)
	c.SetCookie(&http.Cookie{
		Name:     CartCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(cookies.CartTTL.Seconds()),
	})
	return id
}

func setSessionCookie(c echo.Context, cookies CookieConfig, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(cookies.SessionTTL.Seconds()),
		Expires:  expires,
	})
}

func clearSessionCookie(c echo.Context, cookies CookieConfig) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
