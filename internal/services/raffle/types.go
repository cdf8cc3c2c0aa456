package raffle

import (
	"time"

	"github.com/KirkDiggler/raffled/internal/common/clock"
	"github.com/KirkDiggler/raffled/internal/common/uuid"
	"github.com/KirkDiggler/raffled/internal/events"
	"github.com/KirkDiggler/raffled/internal/models"
	"github.com/KirkDiggler/raffled/internal/oracle"
	raffleRepo "github.com/KirkDiggler/raffled/internal/repositories/raffle"
	walletRepo "github.com/KirkDiggler/raffled/internal/repositories/wallet"
)

// Config holds configuration for the raffle service. The raffle
// parameters are immutable after construction.
type Config struct {
	// TicketPrice is the fixed entry fee, in the smallest currency unit
	TicketPrice uint64

	// Interval is the minimum time between draws
	Interval time.Duration

	// StarterBalance is granted to players who have no wallet yet
	StarterBalance uint64

	// KeyHash selects the oracle's gas-price tier / proof scheme
	KeyHash string

	// SubscriptionID is the oracle billing account
	SubscriptionID uint64

	// CallbackGasLimit is the resource budget for the fulfillment callback
	CallbackGasLimit uint32

	// RequestConfirmations is how many confirmations the oracle waits for
	RequestConfirmations uint16

	// Repository dependencies
	RaffleRepo raffleRepo.Repository
	WalletRepo walletRepo.Repository

	// Collaborator dependencies
	Coordinator oracle.Coordinator
	Publisher   events.Publisher

	// Common dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// EnterInput contains parameters for entering a raffle
type EnterInput struct {
	// ChannelID is the Discord channel whose raffle to enter
	ChannelID string

	// PlayerID is the Discord user ID of the entrant
	PlayerID string

	// PlayerName is the display name of the entrant
	PlayerName string

	// Amount is the payment offered for the ticket
	Amount uint64
}

// EnterOutput contains the result of entering a raffle
type EnterOutput struct {
	// TicketID is the unique identifier of the ticket bought
	TicketID string

	// Raffle is the raffle after the entry
	Raffle *models.Raffle

	// Balance is the entrant's wallet balance after paying
	Balance uint64
}

// CheckUpkeepInput contains parameters for an upkeep check
type CheckUpkeepInput struct {
	// ChannelID is the Discord channel whose raffle to check
	ChannelID string
}

// CheckUpkeepOutput contains the result of an upkeep check
type CheckUpkeepOutput struct {
	// UpkeepNeeded is true when all draw conditions hold
	UpkeepNeeded bool

	// IntervalElapsed is true when enough time has passed since the
	// last draw
	IntervalElapsed bool

	// IsOpen is true when the raffle is accepting entries
	IsOpen bool

	// Pot is the current pot
	Pot uint64

	// EntryCount is the current number of tickets
	EntryCount int
}

// RequestDrawInput contains parameters for requesting a draw
type RequestDrawInput struct {
	// ChannelID is the Discord channel whose raffle to draw
	ChannelID string
}

// RequestDrawOutput contains the result of requesting a draw
type RequestDrawOutput struct {
	// RequestID is the oracle-assigned identifier for the randomness
	// request
	RequestID uint64

	// Raffle is the raffle after the transition to calculating
	Raffle *models.Raffle
}

// GetRaffleInput contains parameters for retrieving a channel's raffle
type GetRaffleInput struct {
	// ChannelID is the Discord channel whose raffle to retrieve
	ChannelID string
}

// GetRaffleOutput contains the result of retrieving a channel's raffle
type GetRaffleOutput struct {
	// Raffle is the channel's raffle
	Raffle *models.Raffle

	// TicketPrice is the fixed entry fee
	TicketPrice uint64

	// NextDrawTime is the earliest time the next draw can happen
	NextDrawTime time.Time
}

// GetBalanceInput contains parameters for retrieving a wallet balance
type GetBalanceInput struct {
	// PlayerID is the Discord user ID of the wallet owner
	PlayerID string
}

// GetBalanceOutput contains the result of retrieving a wallet balance
type GetBalanceOutput struct {
	// Balance is the player's wallet balance
	Balance uint64

	// Granted indicates whether a starter balance was just seeded
	Granted bool
}

// ListRafflesInput contains parameters for listing raffles
type ListRafflesInput struct{}

// ListRafflesOutput contains the result of listing raffles
type ListRafflesOutput struct {
	// Raffles are all known raffles
	Raffles []*models.Raffle
}
