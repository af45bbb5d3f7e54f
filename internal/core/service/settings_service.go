package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type settingsService struct {
	settings   ports.SettingsRepository
	categories ports.CategoryRepository
	guard      ports.AccessGuard
	log        zerolog.Logger
}

func NewSettingsService(
	settings ports.SettingsRepository,
	categories ports.CategoryRepository,
	guard ports.AccessGuard,
	log zerolog.Logger,
) ports.SettingsService {
	return &settingsService{settings: settings, categories: categories, guard: guard, log: log}
}

func (s *settingsService) Get(ctx context.Context) (*ports.SettingsView, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s.view(ctx, current)
}

func (s *settingsService) Update(ctx context.Context, token string, patch ports.SettingsPatch) (*ports.SettingsView, error) {
	session, err := s.guard.RequireRole(ctx, token, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	if patch.StoreName != nil {
		name := strings.TrimSpace(*patch.StoreName)
		if name == "" {
			return nil, fmt.Errorf("update settings: %w: store name must not be empty", domain.ErrInvalidInput)
		}
		current.StoreName = name
	}
	if patch.CurrencySymbol != nil {
		symbol := strings.TrimSpace(*patch.CurrencySymbol)
		if symbol == "" {
			return nil, fmt.Errorf("update settings: %w: currency symbol must not be empty", domain.ErrInvalidInput)
		}
		current.CurrencySymbol = symbol
	}

	if err := s.settings.Put(ctx, current); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	s.log.Info().Str("by", session.Username).Msg("settings updated")
	return s.view(ctx, current)
}

func (s *settingsService) view(ctx context.Context, current domain.Settings) (*ports.SettingsView, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &ports.SettingsView{
		StoreName:      current.StoreName,
		CurrencySymbol: current.CurrencySymbol,
		Categories:     categories,
	}, nil
}
