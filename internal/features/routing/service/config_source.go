package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/features/routing/domain"
	"shop-checkout/internal/features/routing/ports"

	"go.uber.org/zap"
)

// ConfigSource loads and parses the routing settings, keeping the parsed value for ttl.
type ConfigSource struct {
	store ports.SettingsStore
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	cached   *domain.Config
	loadedAt time.Time
}

// NewConfigSource creates a new ConfigSource.
func NewConfigSource(store ports.SettingsStore, ttl time.Duration) *ConfigSource {
	return &ConfigSource{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Current returns the parsed configuration.
func (s *ConfigSource) Current(ctx context.Context) (*domain.Config, error) {
	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.loadedAt) < s.ttl {
		cfg := s.cached
		s.mu.RUnlock()
		return cfg, nil
	}
	s.mu.RUnlock()

	raw, err := s.store.GetRoutingSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("routing: failed to load settings: %w", err)
	}

	var cfg domain.Config
	if len(raw) == 0 {
		logger.Named("routing").Warn("No routing settings stored, using defaults")
		cfg = domain.DefaultConfig()
	} else {
		cfg, err = domain.Parse(raw)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.cached = &cfg
	s.loadedAt = s.now()
	s.mu.Unlock()

	logger.Named("routing").Debug("Routing config loaded",
		zap.Int("version", cfg.Version),
		zap.Int("options", len(cfg.Options)),
	)
	return &cfg, nil
}

// Invalidate drops the cached value so the next call reloads.
func (s *ConfigSource) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
