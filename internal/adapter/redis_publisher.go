package adapter

import (
	"context"
	"fmt"

	"trainhub/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements domain.Publisher over Redis Pub/Sub channels.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher on a connected client.
func NewRedisPublisher(client *redis.Client) domain.Publisher {
	return &RedisPublisher{client: client}
}

// Publish sends message to the topic channel. Having no subscribers is not an error.
func (p *RedisPublisher) Publish(ctx context.Context, topic, message string) error {
	if topic == "" {
		return fmt.Errorf("publish: empty topic")
	}
	if err := p.client.Publish(ctx, topic, message).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
