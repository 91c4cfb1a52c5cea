package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RatingCache keeps computed title ratings in Redis so list and detail
// reads skip the AVG query. It is best-effort only: any Redis error is a
// miss and the caller falls back to the store.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

func ratingKey(titleID int64) string {
	return fmt.Sprintf("title:%d:rating", titleID)
}

// no-reviews marker, so the absence of a rating is cacheable too
const noRating = "none"

// Get returns (rating, found). A nil rating with found=true means the
// title is known to have no reviews.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, ratingKey(titleID)).Result()
	if err != nil {
		return nil, false
	}
	if val == noRating {
		return nil, true
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false
	}
	return &rating, true
}

// Set stores the rating; nil records the no-reviews state.
func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) {
	if c == nil || c.client == nil {
		return
	}
	val := noRating
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	c.client.Set(ctx, ratingKey(titleID), val, c.ttl)
}

// Invalidate drops the cached rating after a review mutation.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, ratingKey(titleID))
}
