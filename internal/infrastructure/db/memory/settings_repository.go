package memory

import (
	"context"
	"sync"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// SettingsRepository implements ports.SettingsRepository.
type SettingsRepository struct {
	mu       sync.RWMutex
	settings domain.Settings
}

func NewSettingsRepository(initial domain.Settings) *SettingsRepository {
	return &SettingsRepository{settings: initial}
}

func (r *SettingsRepository) Get(_ context.Context) (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

func (r *SettingsRepository) Put(_ context.Context, s domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
	return nil
}
