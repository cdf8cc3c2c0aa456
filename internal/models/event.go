package models

import (
	"time"
)

// EventType categorizes raffle notifications
type EventType string

const (
	// EventTypePlayerEntered is published when a ticket is sold
	EventTypePlayerEntered EventType = "player_entered"

	// EventTypeDrawRequested is published when a randomness request goes out
	EventTypeDrawRequested EventType = "draw_requested"

	// EventTypeWinnerSelected is published when a draw completes
	EventTypeWinnerSelected EventType = "winner_selected"
)

// Event is a fire-and-forget notification about a raffle. Events are
// point-in-time broadcasts for off-process observers, not queryable state.
type Event struct {
	// Type categorizes the event
	Type EventType `json:"type"`

	// RaffleID is the raffle the event belongs to
	RaffleID string `json:"raffle_id"`

	// ChannelID is the Discord channel the raffle runs in
	ChannelID string `json:"channel_id"`

	// PlayerID is the entrant or winner, depending on Type
	PlayerID string `json:"player_id,omitempty"`

	// PlayerName is the display name of the entrant or winner
	PlayerName string `json:"player_name,omitempty"`

	// RequestID is the oracle request identifier, for draw_requested and
	// winner_selected events
	RequestID uint64 `json:"request_id,omitempty"`

	// Amount is the ticket price paid (player_entered) or the pot paid
	// out (winner_selected)
	Amount uint64 `json:"amount,omitempty"`

	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`
}
