package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups return
// domain.ErrUserNotFound on a miss; Create returns domain.ErrUserExists when
// the username or email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionStore is the process-wide session table.
// Get returns domain.ErrNotFound for unknown ids.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
