package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"auction-marketplace/internal/domain"
)

const bidEventsChannel = "bid_events"

// RedisEventPublisher publishes the domain event stream for downstream
// consumers (analytics, archival). It does not deliver user notifications.
type RedisEventPublisher struct {
	client *redis.Client
}

func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{client: client}
}

func (r *RedisEventPublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, bidEventsChannel, data).Err()
}
