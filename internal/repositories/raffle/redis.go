package raffle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/raffled/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	raffleKeyPrefix  = "raffle:"
	channelKeyPrefix = "raffle_channel:"
	requestKeyPrefix = "raffle_request:"
	allRafflesKey    = "raffles"
)

// ErrRaffleNotFound is returned when a raffle is not found
var ErrRaffleNotFound = errors.New("raffle not found")

// Config holds configuration for the Redis raffle repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed raffle repository
func NewRedis(cfg *Config) (*redisRepository, error) {
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

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveRaffle persists a raffle to Redis
func (r *redisRepository) SaveRaffle(ctx context.Context, input *SaveRaffleInput) error {
	if input == nil || input.Raffle == nil {
		return errors.New("input and raffle cannot be nil")
	}

	// Marshal the raffle to JSON
	raffleJSON, err := json.Marshal(input.Raffle)
	if err != nil {
		return fmt.Errorf("failed to marshal raffle: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Save the raffle
	raffleKey := fmt.Sprintf("%s%s", raffleKeyPrefix, input.Raffle.ID)
	pipe.Set(ctx, raffleKey, raffleJSON, 0) // No expiration, raffles roll forever

	// Update the channel-to-raffle mapping
	if input.Raffle.ChannelID != "" {
		channelKey := fmt.Sprintf("%s%s", channelKeyPrefix, input.Raffle.ChannelID)
		pipe.Set(ctx, channelKey, input.Raffle.ID, 0)
	}

	// Index the raffle for listing
	pipe.SAdd(ctx, allRafflesKey, input.Raffle.ID)

	// If a randomness request is in flight, index the raffle by request ID
	// so the fulfillment callback can find it
	if input.Raffle.OracleRequestID != 0 {
		requestKey := fmt.Sprintf("%s%d", requestKeyPrefix, input.Raffle.OracleRequestID)
		pipe.Set(ctx, requestKey, input.Raffle.ID, 0)
	}

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save raffle: %w", err)
	}

	return nil
}

// GetRaffle retrieves a raffle by ID from Redis
func (r *redisRepository) GetRaffle(ctx context.Context, input *GetRaffleInput) (*models.Raffle, error) {
	if input == nil || input.RaffleID == "" {
		return nil, errors.New("input and raffle ID cannot be empty")
	}

	// Get the raffle from Redis
	raffleKey := fmt.Sprintf("%s%s", raffleKeyPrefix, input.RaffleID)
	raffleJSON, err := r.client.Get(ctx, raffleKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}

	// Unmarshal the raffle from JSON
	var raffle models.Raffle
	if err := json.Unmarshal([]byte(raffleJSON), &raffle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raffle: %w", err)
	}

	return &raffle, nil
}

// GetRaffleByChannel retrieves a raffle by channel ID from Redis
func (r *redisRepository) GetRaffleByChannel(ctx context.Context, input *GetRaffleByChannelInput) (*models.Raffle, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	// Get the raffle ID from the channel-to-raffle mapping
	channelKey := fmt.Sprintf("%s%s", channelKeyPrefix, input.ChannelID)
	raffleID, err := r.client.Get(ctx, channelKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to get raffle ID for channel: %w", err)
	}

	// Get the raffle using the raffle ID
	return r.GetRaffle(ctx, &GetRaffleInput{
		RaffleID: raffleID,
	})
}

// GetRaffleByRequest retrieves a raffle by its outstanding oracle request ID
func (r *redisRepository) GetRaffleByRequest(ctx context.Context, input *GetRaffleByRequestInput) (*models.Raffle, error) {
	if input == nil || input.RequestID == 0 {
		return nil, errors.New("input and request ID cannot be empty")
	}

	// Get the raffle ID from the request-to-raffle mapping
	requestKey := fmt.Sprintf("%s%d", requestKeyPrefix, input.RequestID)
	raffleID, err := r.client.Get(ctx, requestKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to get raffle ID for request: %w", err)
	}

	raffle, err := r.GetRaffle(ctx, &GetRaffleInput{
		RaffleID: raffleID,
	})
	if err != nil {
		return nil, err
	}

	// The mapping outlives the request once the draw completes. Treat a
	// stale mapping as not found so a consumed request cannot be replayed.
	if raffle.OracleRequestID != input.RequestID {
		return nil, ErrRaffleNotFound
	}

	return raffle, nil
}

// ListRaffles retrieves all raffles from Redis
func (r *redisRepository) ListRaffles(ctx context.Context, input *ListRafflesInput) (*ListRafflesOutput, error) {
	// Get all raffle IDs from the set
	raffleIDs, err := r.client.SMembers(ctx, allRafflesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle IDs: %w", err)
	}

	// If there are no raffles, return an empty slice
	if len(raffleIDs) == 0 {
		return &ListRafflesOutput{
			Raffles: []*models.Raffle{},
		}, nil
	}

	// Get all raffles in parallel using a pipeline
	pipe := r.client.Pipeline()
	raffleCommands := make(map[string]*redis.StringCmd)

	for _, raffleID := range raffleIDs {
		raffleKey := fmt.Sprintf("%s%s", raffleKeyPrefix, raffleID)
		raffleCommands[raffleID] = pipe.Get(ctx, raffleKey)
	}

	// Execute the pipeline
	_, err = pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get raffles: %w", err)
	}

	// Process the results
	raffles := make([]*models.Raffle, 0, len(raffleIDs))
	for raffleID, cmd := range raffleCommands {
		raffleJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Raffle was deleted between getting the IDs and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get raffle %s: %w", raffleID, err)
		}

		var raffle models.Raffle
		if err := json.Unmarshal([]byte(raffleJSON), &raffle); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raffle %s: %w", raffleID, err)
		}

		raffles = append(raffles, &raffle)
	}

	return &ListRafflesOutput{
		Raffles: raffles,
	}, nil
}

// DeleteRaffle removes a raffle from Redis
func (r *redisRepository) DeleteRaffle(ctx context.Context, input *DeleteRaffleInput) error {
	if input == nil || input.RaffleID == "" {
		return errors.New("input and raffle ID cannot be empty")
	}

	// Get the raffle first to get its channel ID
	raffle, err := r.GetRaffle(ctx, &GetRaffleInput{
		RaffleID: input.RaffleID,
	})
	if err != nil {
		return err
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Delete the raffle
	raffleKey := fmt.Sprintf("%s%s", raffleKeyPrefix, input.RaffleID)
	pipe.Del(ctx, raffleKey)

	// Delete the channel-to-raffle mapping
	if raffle.ChannelID != "" {
		channelKey := fmt.Sprintf("%s%s", channelKeyPrefix, raffle.ChannelID)
		pipe.Del(ctx, channelKey)
	}

	// Delete any request-to-raffle mapping
	if raffle.OracleRequestID != 0 {
		requestKey := fmt.Sprintf("%s%d", requestKeyPrefix, raffle.OracleRequestID)
		pipe.Del(ctx, requestKey)
	}

	// Remove the raffle from the index
	pipe.SRem(ctx, allRafflesKey, input.RaffleID)

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete raffle: %w", err)
	}

	return nil
}
