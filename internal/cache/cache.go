// Package cache stores the currently outstanding verification token for
// each email address. Entries expire on their own, so a token that was
// never used simply disappears after its TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when no entry exists for the email,
// whether it was never written, already consumed or expired
var ErrCacheMiss = errors.New("cache entry not found")

type VerificationCache interface {
	// Set overwrites any previous token for the email
	Set(ctx context.Context, email, token string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

func key(email string) string {
	return "verification_token:" + email
}
