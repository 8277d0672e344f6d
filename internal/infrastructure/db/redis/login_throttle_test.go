package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestLoginThrottle_KeyNormalisesEmail(t *testing.T) {
	th := NewLoginThrottle(nil, 5, time.Minute)

	a := th.key("user", "Alice@Example.com ")
	b := th.key("user", "alice@example.com")
	if a != b {
		t.Fatalf("keys differ for equivalent emails: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "login_failures:user:") {
		t.Fatalf("unexpected key format: %s", a)
	}
	if strings.Contains(a, "alice") {
		t.Fatalf("key must not contain the raw email: %s", a)
	}
}

func TestLoginThrottle_KeySeparatesSurfaces(t *testing.T) {
	th := NewLoginThrottle(nil, 5, time.Minute)
	if th.key("user", "a@x.com") == th.key("admin", "a@x.com") {
		t.Fatalf("surfaces must not share counters")
	}
}

func TestLoginThrottle_DisabledIsNoop(t *testing.T) {
	th := NewLoginThrottle(nil, 0, time.Minute)
	ctx := context.Background()

	blocked, err := th.Blocked(ctx, "user", "a@x.com")
	if err != nil || blocked {
		t.Fatalf("disabled throttle must never block: %v %v", blocked, err)
	}
	if err := th.RecordFailure(ctx, "user", "a@x.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if err := th.Reset(ctx, "user", "a@x.com"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
}

func newTestThrottle(t *testing.T, limit int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, limit, window), mr
}

func TestLoginThrottle_BlocksAfterLimit(t *testing.T) {
	th, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := th.Blocked(ctx, "user", "a@x.com")
		if err != nil {
			t.Fatalf("Blocked: %v", err)
		}
		if blocked {
			t.Fatalf("blocked after only %d failures", i)
		}
		if err := th.RecordFailure(ctx, "user", "a@x.com"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	blocked, err := th.Blocked(ctx, "user", "A@x.com")
	if err != nil || !blocked {
		t.Fatalf("expected block after 3 failures, got %v %v", blocked, err)
	}
	if blocked, _ := th.Blocked(ctx, "admin", "a@x.com"); blocked {
		t.Fatalf("admin surface must not inherit user failures")
	}
}

func TestLoginThrottle_WindowStartsOnFirstFailure(t *testing.T) {
	th, mr := newTestThrottle(t, 2, time.Minute)
	ctx := context.Background()
	key := th.key("user", "a@x.com")

	if err := th.RecordFailure(ctx, "user", "a@x.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %s", ttl)
	}

	mr.FastForward(20 * time.Second)
	if err := th.RecordFailure(ctx, "user", "a@x.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 40*time.Second {
		t.Fatalf("later failures must not extend the window, TTL %s", ttl)
	}

	mr.FastForward(40 * time.Second)
	if blocked, _ := th.Blocked(ctx, "user", "a@x.com"); blocked {
		t.Fatalf("block must lift once the window expires")
	}
}

func TestLoginThrottle_RestoresMissingTTL(t *testing.T) {
	th, mr := newTestThrottle(t, 2, time.Minute)
	ctx := context.Background()
	key := th.key("user", "a@x.com")

	// A counter left without expiry, e.g. by an interrupted write.
	if err := mr.Set(key, "5"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	if err := th.RecordFailure(ctx, "user", "a@x.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected TTL to be set, got %s", ttl)
	}

	mr.FastForward(time.Minute)
	if blocked, _ := th.Blocked(ctx, "user", "a@x.com"); blocked {
		t.Fatalf("counter must expire")
	}
}

func TestLoginThrottle_ResetClearsCounter(t *testing.T) {
	th, _ := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := th.RecordFailure(ctx, "admin", "root@shield.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if blocked, _ := th.Blocked(ctx, "admin", "root@shield.com"); !blocked {
		t.Fatalf("expected block at limit 1")
	}
	if err := th.Reset(ctx, "admin", "root@shield.com"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if blocked, _ := th.Blocked(ctx, "admin", "root@shield.com"); blocked {
		t.Fatalf("Reset must clear the counter")
	}
}

func TestLoginThrottle_RedisDownReturnsError(t *testing.T) {
	th, mr := newTestThrottle(t, 3, time.Minute)
	mr.Close()

	if _, err := th.Blocked(context.Background(), "user", "a@x.com"); err == nil {
		t.Fatalf("expected error with Redis unreachable")
	}
	if err := th.RecordFailure(context.Background(), "user", "a@x.com"); err == nil {
		t.Fatalf("expected error with Redis unreachable")
	}
}
