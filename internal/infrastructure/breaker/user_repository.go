// Package breaker wraps remote dependencies in circuit breakers so a failing
// backend is shed quickly instead of stalling every request.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const (
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second
)

// Config tunes the breaker. Zero values fall back to the defaults.
type Config struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// UserRepository decorates a ports.UserRepository with a circuit breaker.
// Lookup misses and duplicate users are normal answers and never count as
// failures.
type UserRepository struct {
	next ports.UserRepository
	cb   *gobreaker.CircuitBreaker[*domain.User]
}

func NewUserRepository(next ports.UserRepository, cfg Config, log zerolog.Logger) *UserRepository {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}

	cb := gobreaker.NewCircuitBreaker[*domain.User](gobreaker.Settings{
		Name:        "user-store",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UserStoreBreakerState.Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrUserNotFound) ||
				errors.Is(err, domain.ErrUserExists) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &UserRepository{next: next, cb: cb}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.cb.Execute(func() (*domain.User, error) {
		return r.next.Create(ctx, user)
	})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.cb.Execute(func() (*domain.User, error) {
		return r.next.FindByUsername(ctx, username)
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.cb.Execute(func() (*domain.User, error) {
		return r.next.FindByEmail(ctx, email)
	})
}

// State reports the current breaker state.
func (r *UserRepository) State() gobreaker.State {
	return r.cb.State()
}
