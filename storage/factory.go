package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/zillusion/capsule/logger"
)

// Factory builds an ObjectStore for a provider.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (ObjectStore, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		ProviderMemory: func(context.Context, Config, *logger.Logger) (ObjectStore, error) {
			return NewMemory(), nil
		},
	}
)

// RegisterFactory makes a backend available to New. Backend packages call it
// from init.
func RegisterFactory(provider string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[provider] = f
}

// New creates the ObjectStore selected by cfg.Provider. The backend package
// must have been imported so its factory is registered.
func New(ctx context.Context, cfg Config, log *logger.Logger) (ObjectStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: provider %q is not registered", cfg.Provider)
	}

	log.Info("initializing storage", logger.Fields("provider", cfg.Provider, "bucket", cfg.Bucket))
	return f(ctx, cfg, log)
}
