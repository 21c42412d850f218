package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EventDeduplicator = (*EventDeduplicator)(nil)

const (
	dedupPrefix     = "inner-rag:events:"
	defaultCapacity = 1000
)

// EventDeduplicator keeps recent event IDs in a Redis sorted set scored by
// insertion sequence, so the cache survives restarts.
type EventDeduplicator struct {
	client   *redis.Client
	setKey   string
	seqKey   string
	capacity int
}

// NewEventDeduplicator creates a Redis-backed deduplicator holding up to
// capacity IDs.
func NewEventDeduplicator(client *redis.Client, capacity int) *EventDeduplicator {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &EventDeduplicator{
		client:   client,
		setKey:   dedupPrefix + "seen",
		seqKey:   dedupPrefix + "seq",
		capacity: capacity,
	}
}

// shouldProcessScript checks and records an ID in one step, then trims the
// set to capacity by dropping the lowest sequence numbers.
var shouldProcessScript = redis.NewScript(`
	if redis.call("zscore", KEYS[1], ARGV[1]) then
		return 0
	end
	local seq = redis.call("incr", KEYS[2])
	redis.call("zadd", KEYS[1], seq, ARGV[1])
	local size = redis.call("zcard", KEYS[1])
	local cap = tonumber(ARGV[2])
	if size > cap then
		redis.call("zremrangebyrank", KEYS[1], 0, size - cap - 1)
	end
	return 1
`)

// ShouldProcess records eventID and reports whether it was new.
func (d *EventDeduplicator) ShouldProcess(ctx context.Context, eventID string) (bool, error) {
	n, err := shouldProcessScript.Run(ctx, d.client, []string{d.setKey, d.seqKey}, eventID, d.capacity).Int()
	if err != nil {
		return false, fmt.Errorf("dedup event %s: %w", eventID, err)
	}
	return n == 1, nil
}

// Len returns the number of remembered IDs.
func (d *EventDeduplicator) Len(ctx context.Context) (int, error) {
	n, err := d.client.ZCard(ctx, d.setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return int(n), nil
}
