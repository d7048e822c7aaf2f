package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventDeduplicator implements usecase.EventDeduplicator with SET NX.
type EventDeduplicator struct {
	client *redis.Client
	prefix string
}

// NewEventDeduplicator creates a new EventDeduplicator.
func NewEventDeduplicator(client *redis.Client) *EventDeduplicator {
	return &EventDeduplicator{
		client: client,
		prefix: "webhook:event:",
	}
}

// FirstSeen records id for ttl and reports whether it was new.
func (d *EventDeduplicator) FirstSeen(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return d.client.SetNX(ctx, d.prefix+id, 1, ttl).Result()
}

// Forget removes id.
func (d *EventDeduplicator) Forget(ctx context.Context, id string) error {
	return d.client.Del(ctx, d.prefix+id).Err()
}
