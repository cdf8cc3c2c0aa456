package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	walletKeyPrefix = "wallet:"

	// How many times a debit retries when the balance changes under it
	maxDebitRetries = 5
)

// ErrInsufficientFunds is returned when a debit exceeds the balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// Config holds configuration for the Redis wallet repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed wallet repository
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

// Credit adds funds to a player's wallet
func (r *redisRepository) Credit(ctx context.Context, input *CreditInput) (*CreditOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	walletKey := fmt.Sprintf("%s%s", walletKeyPrefix, input.PlayerID)
	balance, err := r.client.IncrBy(ctx, walletKey, int64(input.Amount)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	return &CreditOutput{
		Balance: uint64(balance),
	}, nil
}

// Debit removes funds from a player's wallet. The check-and-decrement runs
// under WATCH so a concurrent spend cannot drive the balance negative.
func (r *redisRepository) Debit(ctx context.Context, input *DebitInput) (*DebitOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	walletKey := fmt.Sprintf("%s%s", walletKeyPrefix, input.PlayerID)

	var newBalance uint64

	debit := func(tx *redis.Tx) error {
		balance, err := tx.Get(ctx, walletKey).Uint64()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}

		if balance < input.Amount {
			return ErrInsufficientFunds
		}

		newBalance = balance - input.Amount

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, walletKey, newBalance, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxDebitRetries; i++ {
		err := r.client.Watch(ctx, debit, walletKey)
		if err == nil {
			return &DebitOutput{
				Balance: newBalance,
			}, nil
		}
		if err == redis.TxFailedErr {
			// Balance changed under us, try again
			continue
		}
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	return nil, errors.New("debit retries exhausted")
}

// GetBalance retrieves a player's balance
func (r *redisRepository) GetBalance(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	walletKey := fmt.Sprintf("%s%s", walletKeyPrefix, input.PlayerID)
	balance, err := r.client.Get(ctx, walletKey).Uint64()
	if err != nil {
		if err == redis.Nil {
			// No wallet yet means a zero balance
			return &GetBalanceOutput{Balance: 0}, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &GetBalanceOutput{
		Balance: balance,
	}, nil
}

// Grant seeds a starter balance for a player who has no wallet yet
func (r *redisRepository) Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	walletKey := fmt.Sprintf("%s%s", walletKeyPrefix, input.PlayerID)
	granted, err := r.client.SetNX(ctx, walletKey, input.Amount, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to grant starter balance: %w", err)
	}

	balance, err := r.client.Get(ctx, walletKey).Uint64()
	if err != nil {
		return nil, fmt.Errorf("failed to get balance after grant: %w", err)
	}

	return &GrantOutput{
		Granted: granted,
		Balance: balance,
	}, nil
}
