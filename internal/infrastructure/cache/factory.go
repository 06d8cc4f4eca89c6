package cache

import (
	"context"
	"fmt"

	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Stores bundles the checkout session store and the placement idempotency store
type Stores struct {
	Sessions    checkout.SessionRepository
	Idempotency shared.IdempotencyStore
	Backend     string
	// Redis is the shared client when Backend is BackendRedis, nil otherwise
	Redis *redis.Client

	closers []func() error
}

// Close releases the stores and any Redis client they share
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StoresOption configures NewStores
type StoresOption func(*storesOptions)

type storesOptions struct {
	allowFallback bool
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoresOption {
	return func(o *storesOptions) {
		o.allowFallback = allow
	}
}

// NewStores builds the stores selected by cfg.Checkout.SessionStore
func NewStores(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...StoresOption) (*Stores, error) {
	o := storesOptions{allowFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Checkout.SessionStore {
	case "", BackendMemory:
		return newMemoryStores(cfg), nil
	case BackendRedis:
	default:
		return nil, fmt.Errorf("unknown checkout session store %q", cfg.Checkout.SessionStore)
	}

	client, err := NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		if !o.allowFallback {
			return nil, fmt.Errorf("redis required for checkout sessions but unavailable: %w", err)
		}
		logger.Warn("Redis unavailable, falling back to in-memory checkout stores. "+
			"Sessions will not be shared across instances.",
			zap.Error(err),
		)
		return newMemoryStores(cfg), nil
	}

	logger.Info("Using Redis checkout stores", zap.String("addr", client.Options().Addr))
	return newRedisStores(client, cfg), nil
}

func newMemoryStores(cfg *config.Config) *Stores {
	sessions := NewInMemorySessionStore(cfg.Checkout.SessionTTL)
	idem := NewInMemoryIdempotencyStore()
	return &Stores{
		Sessions:    sessions,
		Idempotency: idem,
		Backend:     BackendMemory,
		closers:     []func() error{sessions.Close, idem.Close},
	}
}

func newRedisStores(client *redis.Client, cfg *config.Config) *Stores {
	return &Stores{
		Sessions:    NewRedisSessionStore(client, cfg.Checkout.SessionTTL),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Backend:     BackendRedis,
		Redis:       client,
		closers:     []func() error{client.Close},
	}
}
