package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"auction-marketplace/internal/domain"
)

// RedisItemCache is a read-through cache for single-item lookups. The bid
// protocol never reads it; bids always load the authoritative store row.
type RedisItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisItemCache(client *redis.Client, ttl time.Duration) *RedisItemCache {
	return &RedisItemCache{client: client, ttl: ttl}
}

func itemKey(itemID string) string {
	return fmt.Sprintf("item:%s", itemID)
}

// GetItem returns (nil, nil) on a cache miss.
func (r *RedisItemCache) GetItem(ctx context.Context, itemID string) (*domain.AuctionItem, error) {
	data, err := r.client.Get(ctx, itemKey(itemID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var item domain.AuctionItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisItemCache) SetItem(ctx context.Context, item *domain.AuctionItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemKey(item.ID), data, r.ttl).Err()
}

func (r *RedisItemCache) Invalidate(ctx context.Context, itemID string) error {
	return r.client.Del(ctx, itemKey(itemID)).Err()
}
