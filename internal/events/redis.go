package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/raffled/internal/models"
	"github.com/redis/go-redis/v9"
)

// Redis pub/sub channel for raffle events
const eventChannel = "raffled.events"

// Config holds configuration for the Redis event bus
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisBus implements Publisher and Subscriber using Redis pub/sub
type redisBus struct {
	client *redis.Client
	pubsub *redis.PubSub
}

// NewRedis creates a new Redis-backed event bus
func NewRedis(cfg *Config) (*redisBus, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisBus{
		client: cfg.RedisClient,
	}, nil
}

// Publish broadcasts an event on the raffle event channel
func (b *redisBus) Publish(ctx context.Context, event *models.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe returns a channel of decoded raffle events
func (b *redisBus) Subscribe(ctx context.Context) (<-chan *models.Event, error) {
	if b.pubsub != nil {
		return nil, errors.New("already subscribed")
	}

	b.pubsub = b.client.Subscribe(ctx, eventChannel)

	// Wait for the subscription to be confirmed before returning
	if _, err := b.pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan *models.Event)

	// The context bounds the subscriber's interest: once it is cancelled
	// the sender must be able to exit even with a delivery pending,
	// instead of blocking until Close.
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-b.pubsub.Channel():
				if !ok {
					return
				}

				var event models.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Dropping malformed event payload: %v", err)
					continue
				}

				select {
				case out <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close tears down the subscription, if any
func (b *redisBus) Close() error {
	if b.pubsub == nil {
		return nil
	}
	return b.pubsub.Close()
}
