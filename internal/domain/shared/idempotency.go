package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed keys so retransmitted messages and
// redelivered events are recognized instead of being processed twice.
type IdempotencyStore interface {
	// MarkProcessed records key for ttl, returning true only for the
	// first caller; later calls within the window get false.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether key is still within its dedup window.
	IsProcessed(ctx context.Context, key string) (bool, error)

	Close() error
}

// IdempotencyConfig tunes event deduplication.
type IdempotencyConfig struct {
	// TTL is how long a processed key stays remembered. It bounds the
	// dedup window: a replay after TTL is treated as new.
	TTL time.Duration

	// Enabled turns the check off entirely when false.
	Enabled bool
}

// DefaultIdempotencyConfig keeps keys for a day, long enough to cover
// broker redeliveries and partner retransmissions.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
