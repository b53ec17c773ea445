package intake

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper records webhook delivery ids so that provider retries of the
// same delivery do not open duplicate tickets. Seen and Mark are split so
// an id is only recorded once the delivery actually produced a ticket; a
// retry of a failed create must not be treated as a duplicate.
type Deduper interface {
	// Seen reports whether the key has been marked.
	Seen(ctx context.Context, key string) (bool, error)
	// Mark records the key after the delivery was processed successfully.
	Mark(ctx context.Context, key string) error
}

const dedupKeyPrefix = "helpdesk:webhook:"

type redisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper builds a Deduper backed by redis keys with a TTL.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) Deduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisDeduper{client: client, ttl: ttl}
}

func (d *redisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKeyPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *redisDeduper) Mark(ctx context.Context, key string) error {
	return d.client.Set(ctx, dedupKeyPrefix+key, 1, d.ttl).Err()
}

// NoopDeduper never reports a repeat. It stands in when redis is not
// configured.
type NoopDeduper struct{}

func (NoopDeduper) Seen(context.Context, string) (bool, error) {
	return false, nil
}

func (NoopDeduper) Mark(context.Context, string) error {
	return nil
}
