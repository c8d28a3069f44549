package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency-key checks backed by Redis. It is only a
// fast path; the transaction log remains the authority on whether a key was
// already applied. Key format: idem:<scope>:<key>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// Seen reports whether a request with this idempotency key has already been
// processed in the dedup window.
func (d *DedupChecker) Seen(ctx context.Context, scope, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(scope, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that a request with this idempotency key has been processed
// (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, scope, key string) error {
	return d.client.Set(ctx, d.key(scope, key), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(scope, key string) string {
	return fmt.Sprintf("idem:%s:%s", scope, key)
}
