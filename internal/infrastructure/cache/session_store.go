package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL is how long an idle checkout session is kept
const DefaultSessionTTL = 24 * time.Hour

const defaultSessionPrefix = "storefront:checkout:session:"

type storedSession struct {
	data      []byte
	expiresAt time.Time
}

// InMemorySessionStore keeps sessions as JSON in a map. Every Save
// extends the session's TTL.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]storedSession
	ttl      time.Duration
	janitor  *janitor
}

// NewInMemorySessionStore creates a session store with the given idle TTL
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &InMemorySessionStore{
		sessions: make(map[uuid.UUID]storedSession),
		ttl:      ttl,
	}
	s.janitor = startJanitor(time.Minute, s.cleanup)
	return s
}

// Save creates or replaces a session
func (s *InMemorySessionStore) Save(ctx context.Context, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = storedSession{data: data, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// FindByID returns shared.ErrNotFound for unknown or expired sessions
func (s *InMemorySessionStore) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	s.mu.Lock()
	stored, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok || !time.Now().Before(stored.expiresAt) {
		return nil, shared.ErrNotFound
	}
	return decodeSession(stored.data)
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close stops the cleanup goroutine
func (s *InMemorySessionStore) Close() error {
	s.janitor.stop()
	return nil
}

func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, stored := range s.sessions {
		if !now.Before(stored.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// RedisSessionStore keeps sessions as JSON strings with a sliding TTL
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionStore creates a session store on a shared client
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, keyPrefix: defaultSessionPrefix, ttl: ttl}
}

// Save creates or replaces a session
func (s *RedisSessionStore) Save(ctx context.Context, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

// FindByID returns shared.ErrNotFound for unknown or expired sessions
func (s *RedisSessionStore) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}
	return decodeSession(data)
}

// Delete removes a session
func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) key(id uuid.UUID) string {
	return s.keyPrefix + id.String()
}

func decodeSession(data []byte) (*checkout.Session, error) {
	var session checkout.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

var (
	_ checkout.SessionRepository = (*InMemorySessionStore)(nil)
	_ checkout.SessionRepository = (*RedisSessionStore)(nil)
)
