package discord

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/raffled/internal/models"
	raffleService "github.com/KirkDiggler/raffled/internal/services/raffle"
	"github.com/bwmarrin/discordgo"
)

// formatCoins renders an amount in the smallest currency unit as coins
func formatCoins(amount uint64) string {
	return fmt.Sprintf("%d 🪙", amount)
}

// renderStatusEmbed renders the raffle status response
func renderStatusEmbed(out *raffleService.GetRaffleOutput) *discordgo.MessageEmbed {
	raffle := out.Raffle

	stateLine := "🟢 Open for entries"
	if raffle.IsCalculating() {
		stateLine = "🎲 Drawing a winner..."
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Pot",
			Value:  formatCoins(raffle.Pot),
			Inline: true,
		},
		{
			Name:   "Tickets",
			Value:  fmt.Sprintf("%d", len(raffle.Entries)),
			Inline: true,
		},
		{
			Name:   "Ticket price",
			Value:  formatCoins(out.TicketPrice),
			Inline: true,
		},
	}

	if raffle.IsOpen() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Next draw",
			Value: fmt.Sprintf("<t:%d:R>", out.NextDrawTime.Unix()),
		})
	}

	if raffle.RecentWinnerID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Last winner",
			Value: fmt.Sprintf("<@%s>", raffle.RecentWinnerID),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       "Channel Raffle",
		Description: stateLine,
		Color:       0x00ff00, // Green color
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// renderEventMessage renders the public announcement for a raffle event.
// Returns an empty string for events that are not announced.
func renderEventMessage(event *models.Event) string {
	switch event.Type {
	case models.EventTypePlayerEntered:
		return fmt.Sprintf("🎟️ **%s** bought a ticket! The pot grows by %s.",
			event.PlayerName, formatCoins(event.Amount))
	case models.EventTypeDrawRequested:
		return fmt.Sprintf("🎲 The draw is on! Waiting on randomness request %d...", event.RequestID)
	case models.EventTypeWinnerSelected:
		return fmt.Sprintf("🏆 **<@%s> wins the pot of %s!** A new round is open, `/raffle enter` to play.",
			event.PlayerID, formatCoins(event.Amount))
	default:
		return ""
	}
}
