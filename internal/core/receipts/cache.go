package receipts

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const fingerprintCacheTTL = 24 * time.Hour

// FingerprintCache is a Redis front for fingerprint lookups. It is purely
// advisory: a hit short-circuits a duplicate upload before the blob upload
// and document analysis run, a miss or a Redis error just falls through to
// the repository, and correctness always rests on the repository's own
// duplicate check.
type FingerprintCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewFingerprintCache(client *redis.Client, logger *slog.Logger) *FingerprintCache {
	return &FingerprintCache{client: client, logger: logger}
}

// Seen reports whether the fingerprint was marked recently. Redis errors
// are logged and reported as a miss.
func (c *FingerprintCache) Seen(ctx context.Context, fingerprint string) bool {
	if c == nil || c.client == nil {
		return false
	}

	n, err := c.client.Exists(ctx, cacheKey(fingerprint)).Result()
	if err != nil {
		c.logger.Warn("Fingerprint cache lookup failed", "error", err)
		return false
	}
	return n > 0
}

// Mark records the fingerprint so later uploads of the same content can be
// rejected without reprocessing.
func (c *FingerprintCache) Mark(ctx context.Context, fingerprint string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, cacheKey(fingerprint), 1, fingerprintCacheTTL).Err(); err != nil {
		c.logger.Warn("Fingerprint cache write failed", "error", err)
	}
}

func cacheKey(fingerprint string) string {
	return "receipts:fingerprint:" + fingerprint
}
