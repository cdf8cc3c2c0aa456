package raffle

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/raffled/internal/repositories/raffle Repository

import (
	"context"

	"github.com/KirkDiggler/raffled/internal/models"
)

// Repository defines the interface for raffle data persistence
type Repository interface {
	// SaveRaffle persists a raffle
	SaveRaffle(ctx context.Context, input *SaveRaffleInput) error

	// GetRaffle retrieves a raffle by ID
	GetRaffle(ctx context.Context, input *GetRaffleInput) (*models.Raffle, error)

	// GetRaffleByChannel retrieves the raffle running in a channel
	GetRaffleByChannel(ctx context.Context, input *GetRaffleByChannelInput) (*models.Raffle, error)

	// GetRaffleByRequest retrieves the raffle holding an outstanding
	// oracle request
	GetRaffleByRequest(ctx context.Context, input *GetRaffleByRequestInput) (*models.Raffle, error)

	// ListRaffles retrieves all raffles
	ListRaffles(ctx context.Context, input *ListRafflesInput) (*ListRafflesOutput, error)

	// DeleteRaffle removes a raffle
	DeleteRaffle(ctx context.Context, input *DeleteRaffleInput) error
}
