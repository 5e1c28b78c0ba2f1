package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
	"github.com/fermingonzalezs/scrapper-bot/pkg/errors"
)

const keyPrefix = "notified:"

// RedisStore implements Store on Redis. Entries expire after the configured
// TTL, which doubles as the cleanup of old notifications.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed notified-listing store
func NewRedisStore(ctx context.Context, addr string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		ctx:    ctx,
		ttl:    ttl,
	}
}

// Exists reports whether a listing was already recorded
func (s *RedisStore) Exists(itemID string) (bool, error) {
	count, err := s.client.Exists(s.ctx, keyPrefix+itemID).Result()
	if err != nil {
		return false, errors.NewStore("store", "failed to check notified listing", err)
	}
	return count > 0, nil
}

// Record marks a listing as surfaced, storing the full record for inspection
func (s *RedisStore) Record(listing scraper.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return errors.NewStore("store", "failed to marshal listing", err)
	}

	if err := s.client.Set(s.ctx, keyPrefix+listing.ItemID, data, s.ttl).Err(); err != nil {
		return errors.NewStore("store", "failed to record notified listing", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
