// Package rediscache holds Redis-backed helpers.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "balance:notified:"

// Deduplicator records processed message ids with SET NX so a redelivered
// message is seen only once within the TTL.
type Deduplicator struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewDeduplicator creates a Deduplicator. A non-positive ttl defaults to 24h.
func NewDeduplicator(client *redis.Client, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Deduplicator{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

// Claim returns true when id has not been claimed before.
func (d *Deduplicator) Claim(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("dedup id cannot be empty")
	}
	ok, err := d.client.SetNX(ctx, d.prefix+id, time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", id, err)
	}
	return ok, nil
}

// Release forgets a claim so the message can be processed again.
func (d *Deduplicator) Release(ctx context.Context, id string) error {
	if err := d.client.Del(ctx, d.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", id, err)
	}
	return nil
}
