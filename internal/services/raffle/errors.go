package raffle

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/raffled/internal/models"
)

// Define errors
var (
	ErrTicketPriceNotMet  = errors.New("payment below ticket price")
	ErrRaffleNotOpen      = errors.New("raffle is not open for entries")
	ErrInsufficientFunds  = errors.New("insufficient funds for a ticket")
	ErrRaffleNotFound     = errors.New("no raffle for this channel")
	ErrWinnerPayoutFailed = errors.New("winner payout failed")
	ErrUnknownRequest     = errors.New("no outstanding request with that id")
	ErrNoRandomWords      = errors.New("fulfillment carried no random words")

	ErrNilConfig      = errors.New("config cannot be nil")
	ErrNilRaffleRepo  = errors.New("raffle repository cannot be nil")
	ErrNilWalletRepo  = errors.New("wallet repository cannot be nil")
	ErrNilCoordinator = errors.New("oracle coordinator cannot be nil")
	ErrNilPublisher   = errors.New("event publisher cannot be nil")
	ErrNilClock       = errors.New("clock cannot be nil")
	ErrNilUUID        = errors.New("UUID generator cannot be nil")
)

// UpkeepNotNeededError is returned when a draw is requested while the
// raffle is ineligible. It carries the state that failed the check so the
// caller can tell which condition blocked the draw.
type UpkeepNotNeededError struct {
	// Pot is the current pot
	Pot uint64

	// EntryCount is the current number of tickets
	EntryCount int

	// State is the current lifecycle phase
	State models.RaffleState
}

// Error implements the error interface
func (e *UpkeepNotNeededError) Error() string {
	return fmt.Sprintf("upkeep not needed: pot=%d entries=%d state=%s", e.Pot, e.EntryCount, e.State)
}
