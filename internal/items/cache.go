package items

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// listingKey holds the JSON-encoded unfiltered FOUND listing.
const listingKey = "items:found:all"

// ListingCache is a best-effort Redis cache for the unfiltered item listing.
// Misses and Redis failures fall through to the database.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) Get(ctx context.Context) ([]ItemView, bool) {
	data, err := c.client.Get(ctx, listingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("[cache] get listing: %v", err)
		return nil, false
	}

	var views []ItemView
	if err := json.Unmarshal(data, &views); err != nil {
		log.Printf("[cache] decode listing: %v", err)
		return nil, false
	}
	return views, true
}

func (c *ListingCache) Set(ctx context.Context, views []ItemView) {
	data, err := json.Marshal(views)
	if err != nil {
		log.Printf("[cache] encode listing: %v", err)
		return
	}
	if err := c.client.Set(ctx, listingKey, data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set listing: %v", err)
	}
}

// Invalidate drops the cached listing. Called after every write that can
// change which items are FOUND.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		log.Printf("[cache] invalidate listing: %v", err)
	}
}
