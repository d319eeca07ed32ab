package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const leadDedupTTL = 24 * time.Hour

// LeadDedupChecker provides lead-submission idempotency checks backed by
// Redis. Key format: lead:<contact>:<source>
type LeadDedupChecker struct {
	client *redis.Client
}

// NewLeadDedupChecker creates a LeadDedupChecker wrapping the given client.
func NewLeadDedupChecker(client *redis.Client) *LeadDedupChecker {
	return &LeadDedupChecker{client: client}
}

// IsDuplicate reports whether this contact/source pair was already seen
// within the dedup window.
func (d *LeadDedupChecker) IsDuplicate(ctx context.Context, contact, source string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(contact, source)).Result()
	if err != nil {
		return false, fmt.Errorf("lead dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this contact/source pair has been processed (expires
// after leadDedupTTL).
func (d *LeadDedupChecker) Mark(ctx context.Context, contact, source string) error {
	return d.client.Set(ctx, d.key(contact, source), "1", leadDedupTTL).Err()
}

func (d *LeadDedupChecker) key(contact, source string) string {
	return fmt.Sprintf("lead:%s:%s", contact, source)
}
