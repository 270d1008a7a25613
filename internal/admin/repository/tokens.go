package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore issues single-use purge confirmation tokens.
type TokenStore interface {
	Issue(ctx context.Context, ttl time.Duration) (string, error)
	// Consume reports whether token was live, and invalidates it.
	Consume(ctx context.Context, token string) (bool, error)
}

const purgeTokenPrefix = "admin:purge:"

// RedisTokenStore keeps tokens in Redis so any API replica can confirm.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Issue(ctx context.Context, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, purgeTokenPrefix+token, "1", ttl).Err(); err != nil {
		return "", fmt.Errorf("store purge token: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Consume(ctx context.Context, token string) (bool, error) {
	err := s.rdb.GetDel(ctx, purgeTokenPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume purge token: %w", err)
	}
	return true, nil
}

// MemoryTokenStore is the single-process fallback.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryTokenStore) Issue(_ context.Context, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = s.now().Add(ttl)
	return token, nil
}

func (s *MemoryTokenStore) Consume(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[token]
	if !ok {
		return false, nil
	}
	delete(s.tokens, token)
	return s.now().Before(exp), nil
}

var (
	_ TokenStore = (*RedisTokenStore)(nil)
	_ TokenStore = (*MemoryTokenStore)(nil)
)
