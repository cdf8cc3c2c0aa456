package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/KirkDiggler/raffled/internal/common/clock"
	"github.com/KirkDiggler/raffled/internal/common/uuid"
	"github.com/KirkDiggler/raffled/internal/events"
	"github.com/KirkDiggler/raffled/internal/handlers/discord"
	"github.com/KirkDiggler/raffled/internal/keeper"
	"github.com/KirkDiggler/raffled/internal/oracle"
	raffleRepo "github.com/KirkDiggler/raffled/internal/repositories/raffle"
	walletRepo "github.com/KirkDiggler/raffled/internal/repositories/wallet"
	raffleService "github.com/KirkDiggler/raffled/internal/services/raffle"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load a local .env if present; real deployments set the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment as-is")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	raffles, err := raffleRepo.NewRedis(&raffleRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create raffle repository: %v", err)
	}

	wallets, err := walletRepo.NewRedis(&walletRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create wallet repository: %v", err)
	}

	// Initialize the event bus
	bus, err := events.NewRedis(&events.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create event bus: %v", err)
	}

	// Initialize the randomness coordinator. The local coordinator
	// fulfills in-process after a short delay, standing in for an
	// external provider.
	coordinator := oracle.NewLocalCoordinator(&oracle.LocalConfig{
		FulfillmentDelay: getEnvDuration("FULFILLMENT_DELAY", 10*time.Second),
	})

	// Initialize the raffle service
	raffleSvc, err := raffleService.New(&raffleService.Config{
		TicketPrice:      getEnvUint("TICKET_PRICE", 100),
		Interval:         getEnvDuration("RAFFLE_INTERVAL", 30*time.Minute),
		StarterBalance:   getEnvUint("STARTER_BALANCE", 1000),
		KeyHash:          getEnv("KEY_HASH", "local"),
		SubscriptionID:   getEnvUint("SUBSCRIPTION_ID", 1),
		CallbackGasLimit: uint32(getEnvUint("CALLBACK_GAS_LIMIT", 500000)),
		RaffleRepo:       raffles,
		WalletRepo:       wallets,
		Coordinator:      coordinator,
		Publisher:        bus,
		Clock:            &clock.DefaultClock{},
		UUIDGenerator:    uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create raffle service: %v", err)
	}

	// The service consumes the coordinator's fulfillments
	coordinator.RegisterConsumer(raffleSvc)

	// Initialize the keeper
	upkeep, err := keeper.New(&keeper.Config{
		RaffleService: raffleSvc,
		PollInterval:  getEnvDuration("KEEPER_POLL_INTERVAL", 15*time.Second),
	})
	if err != nil {
		log.Fatalf("Failed to create keeper: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:         discordToken,
		ApplicationID: getEnv("APPLICATION_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		RaffleService: raffleSvc,
		Subscriber:    bus,
		TicketPrice:   getEnvUint("TICKET_PRICE", 100),
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Start the upkeep loop
	if err := upkeep.Start(); err != nil {
		log.Fatalf("Failed to start keeper: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown in reverse order: stop requesting draws, let in-flight
	// fulfillments land, then drop the Discord connection
	upkeep.Stop()
	coordinator.Close()

	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	if err := bus.Close(); err != nil {
		log.Printf("Error closing event bus: %v", err)
	}

	log.Println("Bot has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvUint gets an unsigned integer environment variable or returns a
// default value
func getEnvUint(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a
// default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}
