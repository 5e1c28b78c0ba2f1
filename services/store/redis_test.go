package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	// Test if Redis is available
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	st := NewRedisStore(ctx, "localhost:6379", 0, time.Minute)
	defer st.Close()

	listing := scraper.Listing{
		ItemID:       "990000000001",
		Title:        "Apple MacBook Pro 13",
		URL:          "https://www.ebay.com/itm/990000000001",
		CurrentPrice: 450,
		ScrapedAt:    time.Now(),
	}

	// Make sure the key does not linger from a previous run
	client.Del(ctx, keyPrefix+listing.ItemID)

	exists, err := st.Exists(listing.ItemID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.Record(listing))

	exists, err = st.Exists(listing.ItemID)
	require.NoError(t, err)
	assert.True(t, exists)

	// The entry carries a TTL so old notifications clean themselves up
	ttl, err := client.TTL(ctx, keyPrefix+listing.ItemID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	client.Del(ctx, keyPrefix+listing.ItemID)
}
