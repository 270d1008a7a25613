package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisTokenStoreIsSingleUse(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := NewRedisTokenStore(rdb)
	ctx := context.Background()

	token, err := store.Issue(ctx, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL(purgeTokenPrefix + token); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
	if ok, err := store.Consume(ctx, token); err != nil || !ok {
		t.Fatalf("expected first consume to succeed, got ok=%v err=%v", ok, err)
	}
	if ok, _ := store.Consume(ctx, token); ok {
		t.Fatalf("expected second consume to fail")
	}
}

func TestRedisTokenStoreExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := NewRedisTokenStore(rdb)
	ctx := context.Background()

	token, _ := store.Issue(ctx, time.Minute)
	mr.FastForward(2 * time.Minute)

	if ok, _ := store.Consume(ctx, token); ok {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestMemoryTokenStoreExpires(t *testing.T) {
	store := NewMemoryTokenStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	live, _ := store.Issue(ctx, time.Minute)
	stale, _ := store.Issue(ctx, time.Minute)
	now = now.Add(30 * time.Second)
	if ok, _ := store.Consume(ctx, live); !ok {
		t.Fatalf("expected live token to be accepted")
	}
	now = now.Add(time.Minute)
	if ok, _ := store.Consume(ctx, stale); ok {
		t.Fatalf("expected stale token to be rejected")
	}
}
