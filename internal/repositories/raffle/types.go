package raffle

import (
	"github.com/KirkDiggler/raffled/internal/models"
)

// SaveRaffleInput contains parameters for saving a raffle
type SaveRaffleInput struct {
	// Raffle is the raffle to persist
	Raffle *models.Raffle
}

// GetRaffleInput contains parameters for retrieving a raffle by ID
type GetRaffleInput struct {
	// RaffleID is the unique identifier for the raffle
	RaffleID string
}

// GetRaffleByChannelInput contains parameters for retrieving a raffle by channel
type GetRaffleByChannelInput struct {
	// ChannelID is the Discord channel the raffle runs in
	ChannelID string
}

// GetRaffleByRequestInput contains parameters for retrieving a raffle by
// its outstanding oracle request
type GetRaffleByRequestInput struct {
	// RequestID is the oracle-assigned request identifier
	RequestID uint64
}

// ListRafflesInput contains parameters for listing raffles
type ListRafflesInput struct{}

// ListRafflesOutput contains the result of listing raffles
type ListRafflesOutput struct {
	// Raffles are all known raffles
	Raffles []*models.Raffle
}

// DeleteRaffleInput contains parameters for deleting a raffle
type DeleteRaffleInput struct {
	// RaffleID is the unique identifier for the raffle
	RaffleID string
}
