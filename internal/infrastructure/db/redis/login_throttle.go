package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins per surface and email in fixed windows.
// Key format: login_failures:<surface>:<sha256(lowercased email)>
//
// Unknown and known emails are counted the same way, so the throttle never
// reveals whether an account exists.
type LoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginThrottle returns a throttle that blocks after limit failures within
// window. A limit of zero disables it.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: limit, window: window}
}

func (t *LoginThrottle) enabled() bool {
	return t.limit > 0 && t.client != nil
}

// Blocked reports whether the failure budget for email is exhausted.
func (t *LoginThrottle) Blocked(ctx context.Context, surface, email string) (bool, error) {
	if !t.enabled() {
		return false, nil
	}
	n, err := t.client.Get(ctx, t.key(surface, email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle check: %w", err)
	}
	return n >= t.limit, nil
}

// RecordFailure increments the counter. INCR and EXPIRE NX go out in one
// MULTI/EXEC, so the window starts on the first failure and a key is never
// left without a TTL.
func (t *LoginThrottle) RecordFailure(ctx context.Context, surface, email string) error {
	if !t.enabled() {
		return nil
	}
	key := t.key(surface, email)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, surface, email string) error {
	if !t.enabled() {
		return nil
	}
	return t.client.Del(ctx, t.key(surface, email)).Err()
}

func (t *LoginThrottle) key(surface, email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("login_failures:%s:%s", surface, hex.EncodeToString(sum[:]))
}
