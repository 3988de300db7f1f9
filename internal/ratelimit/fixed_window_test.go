package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewFixedWindowLimiter(client, "test:ratelimit", limit, window)
	if err != nil {
		t.Fatalf("NewFixedWindowLimiter: %v", err)
	}
	return limiter, mr
}

func TestAllowWithinLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("request over the limit should be denied")
	}
}

func TestAllowKeysIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first key should be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("first key should now be exhausted")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatal("a different key has its own quota")
	}
}

func TestAllowFailsClosedOnRedisError(t *testing.T) {
	limiter, mr := newTestLimiter(t, 5, time.Minute)
	mr.Close()

	if limiter.Allow("1.2.3.4") {
		t.Fatal("limiter should deny when redis is unreachable")
	}
}

func TestAllowEmptyKey(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	if !limiter.Allow("") {
		t.Fatal("empty key falls back to a shared bucket and should be allowed once")
	}
	if limiter.Allow("  ") {
		t.Fatal("blank keys share the fallback bucket, which is now exhausted")
	}
}

func TestNewFixedWindowLimiterValidation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	if _, err := NewFixedWindowLimiter(client, "p", 0, time.Minute); err == nil {
		t.Fatal("zero limit should be rejected")
	}
	if _, err := NewFixedWindowLimiter(client, "p", 5, 0); err == nil {
		t.Fatal("zero window should be rejected")
	}
	if _, err := NewFixedWindowLimiter(nil, "p", 5, time.Minute); err == nil {
		t.Fatal("nil client should be rejected")
	}
}
