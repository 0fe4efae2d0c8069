// Package redisfeed publishes execution events over Redis pub/sub for
// local market-data fan-out. It carries no book state; the book never
// persists through it.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tradekit/matchtrade/pkg/messaging"
)

// RedisEventSender implements messaging.EventSender by publishing
// JSON events to one Redis channel.
type RedisEventSender struct {
	client  *redis.Client
	channel string
}

// NewRedisEventSender connects to Redis at addr and binds the sender
// to the given channel. The connection is verified with a ping.
func NewRedisEventSender(addr, channel string) (*RedisEventSender, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisEventSender{
		client:  client,
		channel: channel,
	}, nil
}

// SendTrade publishes a trade event
func (r *RedisEventSender) SendTrade(ctx context.Context, event *messaging.TradeEvent) error {
	return r.publish(ctx, event)
}

// SendCancel publishes a cancel event
func (r *RedisEventSender) SendCancel(ctx context.Context, event *messaging.CancelEvent) error {
	return r.publish(ctx, event)
}

func (r *RedisEventSender) publish(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close releases the underlying client
func (r *RedisEventSender) Close() error {
	return r.client.Close()
}

var _ messaging.EventSender = (*RedisEventSender)(nil)
