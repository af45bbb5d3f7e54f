package ports

import (
	"context"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token       string
	Role        domain.Role
	ExpiresAt   time.Time
	RedirectURL string
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, identifier, secret string) (*LoginResult, error)
	// ResolveSession never fails: a malformed, unknown or expired token
	// yields (nil, false).
	ResolveSession(ctx context.Context, token string) (*domain.Session, bool)
	Logout(ctx context.Context, token string) error
}

// AccessGuard gates privileged operations by session role.
type AccessGuard interface {
	RequireRole(ctx context.Context, token string, minimum domain.Role) (*domain.Session, error)
}
