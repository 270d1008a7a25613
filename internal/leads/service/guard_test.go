package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisGuardRejectsWhileHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	g := NewRedisGuard(rdb)
	ctx := context.Background()

	release, ok, err := g.Acquire(ctx, "email:a@b.com", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got ok=%v err=%v", ok, err)
	}
	if _, ok, _ := g.Acquire(ctx, "email:a@b.com", time.Minute); ok {
		t.Fatalf("expected second acquire to be rejected")
	}

	release()
	if mr.Exists(guardPrefix + "email:a@b.com") {
		t.Fatalf("expected release to delete the key")
	}
	if _, ok, _ := g.Acquire(ctx, "email:a@b.com", time.Minute); !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
}

func TestRedisGuardReleaseKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	g := NewRedisGuard(rdb)
	ctx := context.Background()

	release, _, _ := g.Acquire(ctx, "k", time.Second)
	mr.FastForward(2 * time.Second)
	if _, ok, _ := g.Acquire(ctx, "k", time.Minute); !ok {
		t.Fatalf("expected expired lock to be re-acquired")
	}

	release()
	if !mr.Exists(guardPrefix + "k") {
		t.Fatalf("expected stale release to leave the new holder's key")
	}
}

func TestLocalGuardExpires(t *testing.T) {
	g := NewLocalGuard()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	release, ok, _ := g.Acquire(ctx, "k", time.Minute)
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}
	if _, ok, _ := g.Acquire(ctx, "k", time.Minute); ok {
		t.Fatalf("expected held key to be rejected")
	}

	now = now.Add(2 * time.Minute)
	release2, ok, _ := g.Acquire(ctx, "k", time.Minute)
	if !ok {
		t.Fatalf("expected expired key to be re-acquired")
	}

	release()
	if _, ok, _ := g.Acquire(ctx, "k", time.Minute); ok {
		t.Fatalf("expected stale release to keep the new holder")
	}
	release2()
	if _, ok, _ := g.Acquire(ctx, "k", time.Minute); !ok {
		t.Fatalf("expected acquire after release")
	}
}

func TestSubmissionTransitions(t *testing.T) {
	s := NewSubmission()

	if err := s.To(StateSubmitting); err == nil {
		t.Fatalf("expected idle -> submitting to be rejected")
	}
	if err := s.To(StateDocumentUnlocked); err == nil {
		t.Fatalf("expected idle -> document_unlocked to be rejected")
	}

	for _, next := range []SubmissionState{StateValidating, StateSubmitting, StatePersistFailed, StateIdle, StateValidating, StateSubmitting} {
		if err := s.To(next); err != nil {
			t.Fatalf("unexpected error moving to %s: %v", next, err)
		}
	}
	if s.DocumentUnlocked() {
		t.Fatalf("expected document to stay locked before persisting")
	}
	if err := s.To(StateDocumentUnlocked); err == nil {
		t.Fatalf("expected submitting -> document_unlocked to be rejected")
	}
	if err := s.To(StatePersisted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.To(StateDocumentUnlocked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.DocumentUnlocked() {
		t.Fatalf("expected document to be unlocked")
	}
	if len(s.History()) != 9 {
		t.Fatalf("expected 9 visited states, got %d", len(s.History()))
	}
}
