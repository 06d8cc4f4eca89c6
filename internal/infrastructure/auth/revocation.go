package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocationList invalidates tokens before they expire, on logout
type TokenRevocationList interface {
	// Revoke adds a token ID; ttl is the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList implements TokenRevocationList using Redis
type RedisRevocationList struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRevocationList creates a revocation list over an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{
		client:    client,
		keyPrefix: "storefront:token:revoked:",
	}
}

// Revoke stores the token ID until it would have expired anyway
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether the token ID was revoked
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, l.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// InMemoryRevocationList is a single-instance TokenRevocationList
type InMemoryRevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time // jti -> expiry
}

// NewInMemoryRevocationList creates an empty list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{entries: make(map[string]time.Time)}
}

// Revoke adds the token ID
func (l *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether the token ID is revoked and not yet expired
func (l *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(l.entries, jti)
		return false, nil
	}
	return true, nil
}

var (
	_ TokenRevocationList = (*RedisRevocationList)(nil)
	_ TokenRevocationList = (*InMemoryRevocationList)(nil)
)
