package raffle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/raffled/internal/common/clock"
	"github.com/KirkDiggler/raffled/internal/common/uuid"
	"github.com/KirkDiggler/raffled/internal/events"
	"github.com/KirkDiggler/raffled/internal/models"
	"github.com/KirkDiggler/raffled/internal/oracle"
	raffleRepo "github.com/KirkDiggler/raffled/internal/repositories/raffle"
	walletRepo "github.com/KirkDiggler/raffled/internal/repositories/wallet"
)

const (
	// A draw needs exactly one random word
	drawNumWords = 1

	// Confirmations the oracle waits for before fulfilling
	defaultRequestConfirmations = 3
)

// service implements the Service interface
type service struct {
	config     *Config
	raffleRepo raffleRepo.Repository
	walletRepo walletRepo.Repository
	coord      oracle.Coordinator
	publisher  events.Publisher
	clock      clock.Clock
	uuider     uuid.UUID

	// Per-channel locks serializing the raffle read-modify-write.
	// Entries, draw requests and fulfillments all load, mutate and
	// blind-save the same document; without this two concurrent entries
	// can overwrite each other and lose a paid ticket.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new raffle service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RaffleRepo == nil {
		return nil, ErrNilRaffleRepo
	}

	if cfg.WalletRepo == nil {
		return nil, ErrNilWalletRepo
	}

	if cfg.Coordinator == nil {
		return nil, ErrNilCoordinator
	}

	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUID
	}

	if cfg.RequestConfirmations == 0 {
		cfg.RequestConfirmations = defaultRequestConfirmations
	}

	return &service{
		config:     cfg,
		raffleRepo: cfg.RaffleRepo,
		walletRepo: cfg.WalletRepo,
		coord:      cfg.Coordinator,
		publisher:  cfg.Publisher,
		clock:      cfg.Clock,
		uuider:     cfg.UUIDGenerator,
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// lockChannel takes the write lock for one channel's raffle and returns
// the unlock. Locks are never released from the map; the set of channels
// a bot serves is small and stable.
func (s *service) lockChannel(channelID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[channelID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Enter buys one ticket in a channel's raffle
func (s *service) Enter(ctx context.Context, input *EnterInput) (*EnterOutput, error) {
	if input == nil || input.ChannelID == "" || input.PlayerID == "" {
		return nil, errors.New("input, channel ID and player ID cannot be empty")
	}

	// Check the payment before anything else
	if input.Amount < s.config.TicketPrice {
		return nil, ErrTicketPriceNotMet
	}

	now := s.clock.Now()

	// Entries arrive on concurrent handler goroutines; hold the channel
	// lock from load to save so no ticket is lost to an interleaved write
	unlock := s.lockChannel(input.ChannelID)
	defer unlock()

	// Get the channel's raffle, creating it on first entry
	raffle, err := s.raffleRepo.GetRaffleByChannel(ctx, &raffleRepo.GetRaffleByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if !errors.Is(err, raffleRepo.ErrRaffleNotFound) {
			return nil, err
		}

		raffle = &models.Raffle{
			ID:           s.uuider.NewUUID(),
			ChannelID:    input.ChannelID,
			State:        models.RaffleStateOpen,
			Entries:      []*models.Entry{},
			LastDrawTime: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	// Entries are only accepted while the raffle is open
	if !raffle.IsOpen() {
		return nil, ErrRaffleNotOpen
	}

	// Take the payment
	debitOut, err := s.walletRepo.Debit(ctx, &walletRepo.DebitInput{
		PlayerID: input.PlayerID,
		Amount:   input.Amount,
	})
	if err != nil {
		if errors.Is(err, walletRepo.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	// Append the ticket and grow the pot
	entry := &models.Entry{
		ID:         s.uuider.NewUUID(),
		RaffleID:   raffle.ID,
		PlayerID:   input.PlayerID,
		PlayerName: input.PlayerName,
		Amount:     input.Amount,
		EnteredAt:  now,
	}

	raffle.Entries = append(raffle.Entries, entry)
	raffle.Pot += input.Amount
	raffle.UpdatedAt = now

	err = s.raffleRepo.SaveRaffle(ctx, &raffleRepo.SaveRaffleInput{
		Raffle: raffle,
	})
	if err != nil {
		// The payment was taken but the ticket was not recorded, give
		// the money back
		if _, refundErr := s.walletRepo.Credit(ctx, &walletRepo.CreditInput{
			PlayerID: input.PlayerID,
			Amount:   input.Amount,
		}); refundErr != nil {
			log.Printf("Failed to refund player %s after save failure: %v", input.PlayerID, refundErr)
		}
		return nil, err
	}

	s.publish(ctx, &models.Event{
		Type:       models.EventTypePlayerEntered,
		RaffleID:   raffle.ID,
		ChannelID:  raffle.ChannelID,
		PlayerID:   input.PlayerID,
		PlayerName: input.PlayerName,
		Amount:     input.Amount,
		Timestamp:  now,
	})

	return &EnterOutput{
		TicketID: entry.ID,
		Raffle:   raffle,
		Balance:  debitOut.Balance,
	}, nil
}

// CheckUpkeep evaluates whether a draw may be requested
func (s *service) CheckUpkeep(ctx context.Context, input *CheckUpkeepInput) (*CheckUpkeepOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	raffle, err := s.raffleRepo.GetRaffleByChannel(ctx, &raffleRepo.GetRaffleByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, raffleRepo.ErrRaffleNotFound) {
			// A channel without a raffle has nothing to draw
			return &CheckUpkeepOutput{}, nil
		}
		return nil, err
	}

	now := s.clock.Now()

	return &CheckUpkeepOutput{
		UpkeepNeeded:    s.upkeepNeeded(raffle, now),
		IntervalElapsed: s.intervalElapsed(raffle, now),
		IsOpen:          raffle.IsOpen(),
		Pot:             raffle.Pot,
		EntryCount:      len(raffle.Entries),
	}, nil
}

// intervalElapsed reports whether enough time has passed since the last draw
func (s *service) intervalElapsed(raffle *models.Raffle, now time.Time) bool {
	return now.Sub(raffle.LastDrawTime) >= s.config.Interval
}

// upkeepNeeded is the draw eligibility predicate. The pot check is implied
// by a non-empty entry list and a positive ticket price, but both are
// checked anyway.
func (s *service) upkeepNeeded(raffle *models.Raffle, now time.Time) bool {
	return s.intervalElapsed(raffle, now) &&
		raffle.IsOpen() &&
		raffle.Pot > 0 &&
		len(raffle.Entries) > 0
}

// RequestDraw closes entries and requests randomness for the draw
func (s *service) RequestDraw(ctx context.Context, input *RequestDrawInput) (*RequestDrawOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	// An entry landing between the load and the save below would be
	// erased along with its payment; the channel lock keeps them apart
	unlock := s.lockChannel(input.ChannelID)
	defer unlock()

	raffle, err := s.raffleRepo.GetRaffleByChannel(ctx, &raffleRepo.GetRaffleByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, raffleRepo.ErrRaffleNotFound) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}

	now := s.clock.Now()

	// Re-check eligibility. A raffle already calculating fails here,
	// which is what keeps a second request from going out while one is
	// in flight.
	if !s.upkeepNeeded(raffle, now) {
		return nil, &UpkeepNotNeededError{
			Pot:        raffle.Pot,
			EntryCount: len(raffle.Entries),
			State:      raffle.State,
		}
	}

	// Issue the single outbound randomness request
	reqOut, err := s.coord.RequestRandomWords(ctx, &oracle.RequestRandomWordsInput{
		KeyHash:              s.config.KeyHash,
		SubscriptionID:       s.config.SubscriptionID,
		RequestConfirmations: s.config.RequestConfirmations,
		CallbackGasLimit:     s.config.CallbackGasLimit,
		NumWords:             drawNumWords,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request random words: %w", err)
	}

	raffle.State = models.RaffleStateCalculating
	raffle.OracleRequestID = reqOut.RequestID
	raffle.UpdatedAt = now

	err = s.raffleRepo.SaveRaffle(ctx, &raffleRepo.SaveRaffleInput{
		Raffle: raffle,
	})
	if err != nil {
		// The request is already out. Its fulfillment will find no
		// matching raffle and be rejected, so the raffle stays open.
		return nil, fmt.Errorf("failed to save raffle after request %d: %w", reqOut.RequestID, err)
	}

	s.publish(ctx, &models.Event{
		Type:      models.EventTypeDrawRequested,
		RaffleID:  raffle.ID,
		ChannelID: raffle.ChannelID,
		RequestID: reqOut.RequestID,
		Timestamp: now,
	})

	return &RequestDrawOutput{
		RequestID: reqOut.RequestID,
		Raffle:    raffle,
	}, nil
}

// FulfillRandomWords receives the randomness for an outstanding draw,
// selects the winner, pays out the pot and reopens the raffle
func (s *service) FulfillRandomWords(ctx context.Context, requestID uint64, randomWords []uint64) error {
	raffle, err := s.raffleRepo.GetRaffleByRequest(ctx, &raffleRepo.GetRaffleByRequestInput{
		RequestID: requestID,
	})
	if err != nil {
		if errors.Is(err, raffleRepo.ErrRaffleNotFound) {
			return ErrUnknownRequest
		}
		return err
	}

	// The first lookup only located the channel; reload under its lock so
	// the snapshot about to be reset cannot race a concurrent write
	unlock := s.lockChannel(raffle.ChannelID)
	defer unlock()

	raffle, err = s.raffleRepo.GetRaffleByRequest(ctx, &raffleRepo.GetRaffleByRequestInput{
		RequestID: requestID,
	})
	if err != nil {
		if errors.Is(err, raffleRepo.ErrRaffleNotFound) {
			return ErrUnknownRequest
		}
		return err
	}

	if !raffle.IsCalculating() || raffle.OracleRequestID != requestID {
		return ErrUnknownRequest
	}

	if len(randomWords) == 0 {
		return ErrNoRandomWords
	}

	// A calculating raffle always has entries, the eligibility check
	// guarantees it. Guard anyway so a corrupt document cannot panic.
	if len(raffle.Entries) == 0 {
		return fmt.Errorf("raffle %s is calculating with no entries", raffle.ID)
	}

	// Winner selection. The modulo bias is negligible for ticket counts
	// vastly smaller than the word's range and is accepted as-is.
	winnerIndex := randomWords[0] % uint64(len(raffle.Entries))
	winner := raffle.Entries[winnerIndex]
	pot := raffle.Pot
	now := s.clock.Now()

	// Stage the new state in memory. Nothing is persisted until the
	// payout has gone through, so a failed payout leaves the stored
	// raffle exactly as it was.
	raffle.RecentWinnerID = winner.PlayerID
	raffle.RecentWinnerName = winner.PlayerName
	raffle.Entries = []*models.Entry{}
	raffle.Pot = 0
	raffle.State = models.RaffleStateOpen
	raffle.LastDrawTime = now
	raffle.OracleRequestID = 0
	raffle.UpdatedAt = now

	if _, err := s.walletRepo.Credit(ctx, &walletRepo.CreditInput{
		PlayerID: winner.PlayerID,
		Amount:   pot,
	}); err != nil {
		return fmt.Errorf("%w: crediting %s: %v", ErrWinnerPayoutFailed, winner.PlayerID, err)
	}

	err = s.raffleRepo.SaveRaffle(ctx, &raffleRepo.SaveRaffleInput{
		Raffle: raffle,
	})
	if err != nil {
		// The winner is paid but the raffle document still says
		// calculating. This needs an operator.
		log.Printf("Raffle %s paid out %d to %s but failed to reset: %v", raffle.ID, pot, winner.PlayerID, err)
		return err
	}

	s.publish(ctx, &models.Event{
		Type:       models.EventTypeWinnerSelected,
		RaffleID:   raffle.ID,
		ChannelID:  raffle.ChannelID,
		PlayerID:   winner.PlayerID,
		PlayerName: winner.PlayerName,
		RequestID:  requestID,
		Amount:     pot,
		Timestamp:  now,
	})

	return nil
}

// GetRaffle retrieves the raffle running in a channel
func (s *service) GetRaffle(ctx context.Context, input *GetRaffleInput) (*GetRaffleOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	raffle, err := s.raffleRepo.GetRaffleByChannel(ctx, &raffleRepo.GetRaffleByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, raffleRepo.ErrRaffleNotFound) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}

	return &GetRaffleOutput{
		Raffle:       raffle,
		TicketPrice:  s.config.TicketPrice,
		NextDrawTime: raffle.LastDrawTime.Add(s.config.Interval),
	}, nil
}

// GetBalance retrieves a player's wallet balance, seeding the starter
// balance for first-time players
func (s *service) GetBalance(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	grantOut, err := s.walletRepo.Grant(ctx, &walletRepo.GrantInput{
		PlayerID: input.PlayerID,
		Amount:   s.config.StarterBalance,
	})
	if err != nil {
		return nil, err
	}

	return &GetBalanceOutput{
		Balance: grantOut.Balance,
		Granted: grantOut.Granted,
	}, nil
}

// ListRaffles retrieves all raffles
func (s *service) ListRaffles(ctx context.Context, input *ListRafflesInput) (*ListRafflesOutput, error) {
	out, err := s.raffleRepo.ListRaffles(ctx, &raffleRepo.ListRafflesInput{})
	if err != nil {
		return nil, err
	}

	return &ListRafflesOutput{
		Raffles: out.Raffles,
	}, nil
}

// publish broadcasts an event. Notifications are observability, not
// state; a failed broadcast never aborts the operation that emitted it.
func (s *service) publish(ctx context.Context, event *models.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s event for raffle %s: %v", event.Type, event.RaffleID, err)
	}
}
