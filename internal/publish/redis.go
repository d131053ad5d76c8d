// Package publish fans stored notifications out to real-time subscribers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nhle/sitehub-notify/internal/model"
)

// redisClient is the subset of *redis.Client the publisher needs.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes each notification as JSON on a per-recipient
// channel named "<prefix>:user:<id>".
type RedisPublisher struct {
	client redisClient
	prefix string
}

// RedisOptions configures NewRedisPublisher.
type RedisOptions struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, opts RedisOptions) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return newRedisPublisher(client, opts.ChannelPrefix), nil
}

func newRedisPublisher(client redisClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "notifications"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel a user's notifications are published on.
func (p *RedisPublisher) Channel(userID int64) string {
	return fmt.Sprintf("%s:user:%d", p.prefix, userID)
}

// Publish sends n to its recipient's channel.
func (p *RedisPublisher) Publish(ctx context.Context, n *model.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification %s: %w", n.ID, err)
	}
	if err := p.client.Publish(ctx, p.Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publishing notification %s: %w", n.ID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
