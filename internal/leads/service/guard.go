package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard rejects a second submission for the same key while the first is
// in flight. Acquire returns ok=false when the key is already held.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

const guardPrefix = "leads:submit:"

// releaseScript deletes the key only if it still holds our token, so a
// lock that expired and was re-acquired by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard holds keys with SET NX PX so the guard spans API replicas.
type RedisGuard struct {
	rdb *redis.Client
}

func NewRedisGuard(rdb *redis.Client) *RedisGuard {
	return &RedisGuard{rdb: rdb}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, guardPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), g.rdb, []string{guardPrefix + key}, token).Err()
	}
	return release, true, nil
}

// LocalGuard is the single-process fallback.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]time.Time), now: time.Now}
}

func (g *LocalGuard) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if exp, ok := g.held[key]; ok && now.Before(exp) {
		return nil, false, nil
	}
	exp := now.Add(ttl)
	g.held[key] = exp

	release := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if held, ok := g.held[key]; ok && held.Equal(exp) {
			delete(g.held, key)
		}
	}
	return release, true, nil
}

var (
	_ Guard = (*RedisGuard)(nil)
	_ Guard = (*LocalGuard)(nil)
)
