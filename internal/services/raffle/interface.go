package raffle

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/raffled/internal/services/raffle Service

import (
	"context"
)

// Service defines the interface for raffle operations
type Service interface {
	// Enter buys one ticket in a channel's raffle
	Enter(ctx context.Context, input *EnterInput) (*EnterOutput, error)

	// CheckUpkeep evaluates whether a draw may be requested. Read-only,
	// safe to call at any time.
	CheckUpkeep(ctx context.Context, input *CheckUpkeepInput) (*CheckUpkeepOutput, error)

	// RequestDraw closes entries and requests randomness for the draw
	RequestDraw(ctx context.Context, input *RequestDrawInput) (*RequestDrawOutput, error)

	// FulfillRandomWords receives the randomness for an outstanding draw,
	// selects the winner and pays out the pot. Called by the oracle
	// coordinator, exactly once per request.
	FulfillRandomWords(ctx context.Context, requestID uint64, randomWords []uint64) error

	// GetRaffle retrieves the raffle running in a channel
	GetRaffle(ctx context.Context, input *GetRaffleInput) (*GetRaffleOutput, error)

	// GetBalance retrieves a player's wallet balance, seeding a starter
	// balance for first-time players
	GetBalance(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error)

	// ListRaffles retrieves all raffles
	ListRaffles(ctx context.Context, input *ListRafflesInput) (*ListRafflesOutput, error)
}
