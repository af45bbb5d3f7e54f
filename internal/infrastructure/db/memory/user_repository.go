// Package memory holds the in-process repositories. Every collection owns its
// own lock, so writers on different collections never contend.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository with in-memory storage.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string // lower(username) -> id
	byEmail    map[string]string // lower(email) -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	uname := strings.ToLower(user.Username)
	email := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[uname]; taken {
		return nil, domain.ErrUserExists
	}
	if email != "" {
		if _, taken := r.byEmail[email]; taken {
			return nil, domain.ErrUserExists
		}
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.byID[stored.ID] = &stored
	r.byUsername[uname] = stored.ID
	if email != "" {
		r.byEmail[email] = stored.ID
	}

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(r.byUsername, username)
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(r.byEmail, email)
}

func (r *UserRepository) find(index map[string]string, key string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[strings.ToLower(key)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
