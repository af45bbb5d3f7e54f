package service

import (
	"context"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// AccessGuard implements ports.AccessGuard on top of session resolution.
type AccessGuard struct {
	auth ports.AuthService
}

func NewAccessGuard(auth ports.AuthService) *AccessGuard {
	return &AccessGuard{auth: auth}
}

// RequireRole fails with domain.ErrUnauthenticated when token does not
// resolve to a live session and with domain.ErrForbidden when the session
// role does not meet minimum.
func (g *AccessGuard) RequireRole(ctx context.Context, token string, minimum domain.Role) (*domain.Session, error) {
	session, ok := g.auth.ResolveSession(ctx, token)
	if !ok {
		metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, domain.ErrUnauthenticated
	}
	if !session.Role.Satisfies(minimum) {
		metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}
	return session, nil
}
