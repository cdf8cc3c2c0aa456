package keeper

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	raffleService "github.com/KirkDiggler/raffled/internal/services/raffle"
)

// Keeper periodically evaluates upkeep for every raffle and requests a
// draw when one is due. It is the automation agent the raffle service
// itself never runs: the service only exposes the eligibility predicate.
type Keeper struct {
	raffleService raffleService.Service
	pollInterval  time.Duration

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// Config holds configuration for the keeper
type Config struct {
	// RaffleService is the service to run upkeep against
	RaffleService raffleService.Service

	// PollInterval is how often upkeep is evaluated
	PollInterval time.Duration
}

// New creates a new keeper
func New(cfg *Config) (*Keeper, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RaffleService == nil {
		return nil, errors.New("raffle service cannot be nil")
	}

	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}

	return &Keeper{
		raffleService: cfg.RaffleService,
		pollInterval:  cfg.PollInterval,
		done:          make(chan struct{}),
	}, nil
}

// Start launches the upkeep loop
func (k *Keeper) Start() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.started {
		return errors.New("keeper already started")
	}
	k.started = true

	k.wg.Add(1)
	go k.loop()

	log.Printf("Keeper running, polling every %s", k.pollInterval)
	return nil
}

// Stop shuts down the upkeep loop and waits for it to finish
func (k *Keeper) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.started {
		return
	}
	k.started = false

	close(k.done)
	k.wg.Wait()
}

func (k *Keeper) loop() {
	defer k.wg.Done()

	ticker := time.NewTicker(k.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case <-ticker.C:
			k.runUpkeep(context.Background())
		}
	}
}

// runUpkeep walks every raffle once, requesting a draw where needed. A
// failure on one raffle never stops the walk.
func (k *Keeper) runUpkeep(ctx context.Context) {
	listOut, err := k.raffleService.ListRaffles(ctx, &raffleService.ListRafflesInput{})
	if err != nil {
		log.Printf("Upkeep could not list raffles: %v", err)
		return
	}

	for _, raffle := range listOut.Raffles {
		checkOut, err := k.raffleService.CheckUpkeep(ctx, &raffleService.CheckUpkeepInput{
			ChannelID: raffle.ChannelID,
		})
		if err != nil {
			log.Printf("Upkeep check failed for channel %s: %v", raffle.ChannelID, err)
			continue
		}

		if !checkOut.UpkeepNeeded {
			continue
		}

		drawOut, err := k.raffleService.RequestDraw(ctx, &raffleService.RequestDrawInput{
			ChannelID: raffle.ChannelID,
		})
		if err != nil {
			// Someone else may have requested the draw between the
			// check and this call, which is fine
			var notNeeded *raffleService.UpkeepNotNeededError
			if errors.As(err, &notNeeded) {
				log.Printf("Draw for channel %s already handled: %v", raffle.ChannelID, notNeeded)
				continue
			}
			log.Printf("Draw request failed for channel %s: %v", raffle.ChannelID, err)
			continue
		}

		log.Printf("Requested draw for channel %s, request %d", raffle.ChannelID, drawOut.RequestID)
	}
}
