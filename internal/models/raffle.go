package models

import (
	"time"
)

// RaffleState represents the lifecycle phase of a raffle
type RaffleState string

const (
	// RaffleStateOpen indicates a raffle is accepting entries
	RaffleStateOpen RaffleState = "open"

	// RaffleStateCalculating indicates a draw is in flight and entries are closed
	RaffleStateCalculating RaffleState = "calculating"
)

// Raffle represents a rolling raffle in a Discord channel
type Raffle struct {
	// ID is the unique identifier for the raffle
	ID string

	// ChannelID is the Discord channel the raffle runs in
	ChannelID string

	// State is the current lifecycle phase of the raffle
	State RaffleState

	// Entries are the tickets sold since the last draw, in entry order.
	// One player may hold multiple entries.
	Entries []*Entry

	// Pot is the total amount collected since the last draw, in the
	// smallest currency unit
	Pot uint64

	// LastDrawTime is when the last draw completed (or when the raffle
	// was created, before the first draw)
	LastDrawTime time.Time

	// RecentWinnerID is the player who won the most recent draw
	RecentWinnerID string

	// RecentWinnerName is the display name of the most recent winner
	RecentWinnerName string

	// OracleRequestID correlates the outstanding randomness request with
	// its fulfillment. Zero when no request is in flight.
	OracleRequestID uint64

	// CreatedAt is when the raffle was created
	CreatedAt time.Time

	// UpdatedAt is when the raffle was last updated
	UpdatedAt time.Time
}

// Entry represents a single ticket in a raffle
type Entry struct {
	// ID is the unique identifier for the ticket
	ID string

	// RaffleID is the raffle this ticket belongs to
	RaffleID string

	// PlayerID is the Discord user ID of the ticket holder
	PlayerID string

	// PlayerName is the display name of the ticket holder
	PlayerName string

	// Amount is what the player paid for the ticket
	Amount uint64

	// EnteredAt is when the ticket was bought
	EnteredAt time.Time
}

// IsOpen returns true if the raffle is accepting entries
func (r *Raffle) IsOpen() bool {
	return r.State == RaffleStateOpen
}

// IsCalculating returns true if a draw is in flight
func (r *Raffle) IsCalculating() bool {
	return r.State == RaffleStateCalculating
}
