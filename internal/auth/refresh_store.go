package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "refresh_token:"

// RefreshStore keeps the single currently valid refresh credential per user.
type RefreshStore interface {
	// Store overwrites any previous record for userID.
	Store(ctx context.Context, userID, token string) error
	// Lookup returns ErrRefreshNotFound when nothing is stored.
	Lookup(ctx context.Context, userID string) (string, error)
	// Revoke deletes the record; a missing record is not an error.
	Revoke(ctx context.Context, userID string) error
}

func refreshKey(userID string) string {
	return refreshKeyPrefix + userID
}

// RedisRefreshStore keeps refresh credentials in Redis with a TTL.
type RedisRefreshStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRefreshStore builds a Redis-backed refresh store.
func NewRedisRefreshStore(client *redis.Client, ttl time.Duration) *RedisRefreshStore {
	return &RedisRefreshStore{client: client, ttl: ttl}
}

func (s *RedisRefreshStore) Store(ctx context.Context, userID, token string) error {
	return s.client.Set(ctx, refreshKey(userID), token, s.ttl).Err()
}

func (s *RedisRefreshStore) Lookup(ctx context.Context, userID string) (string, error) {
	token, err := s.client.Get(ctx, refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshNotFound
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisRefreshStore) Revoke(ctx context.Context, userID string) error {
	return s.client.Del(ctx, refreshKey(userID)).Err()
}

type refreshEntry struct {
	token     string
	expiresAt time.Time
}

type memoryRefreshStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]refreshEntry
}

// NewMemoryRefreshStore builds an in-process refresh store for development and
// tests. now may be nil.
func NewMemoryRefreshStore(ttl time.Duration, now func() time.Time) RefreshStore {
	if now == nil {
		now = time.Now
	}
	return &memoryRefreshStore{ttl: ttl, now: now, entries: make(map[string]refreshEntry)}
}

func (s *memoryRefreshStore) Store(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = refreshEntry{token: token, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *memoryRefreshStore) Lookup(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	if !ok {
		return "", ErrRefreshNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, userID)
		return "", ErrRefreshNotFound
	}
	return entry.token, nil
}

func (s *memoryRefreshStore) Revoke(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
