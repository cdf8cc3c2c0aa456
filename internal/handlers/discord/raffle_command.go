package discord

import (
	"context"
	"errors"
	"fmt"

	raffleService "github.com/KirkDiggler/raffled/internal/services/raffle"
	"github.com/bwmarrin/discordgo"
)

// Subcommand names for /raffle
const (
	SubcommandEnter   = "enter"
	SubcommandStatus  = "status"
	SubcommandWinner  = "winner"
	SubcommandBalance = "balance"
)

// RaffleCommand handles the /raffle slash command
type RaffleCommand struct {
	BaseCommand
	raffleService raffleService.Service
	ticketPrice   uint64
}

// NewRaffleCommand creates a new raffle command handler
func NewRaffleCommand(svc raffleService.Service, ticketPrice uint64) *RaffleCommand {
	return &RaffleCommand{
		BaseCommand: BaseCommand{
			Name:        "raffle",
			Description: "Enter and inspect the channel raffle",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandEnter,
					Description: "Buy a ticket in this channel's raffle",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandStatus,
					Description: "Show the raffle's pot, tickets and next draw",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandWinner,
					Description: "Show the most recent winner",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandBalance,
					Description: "Show your wallet balance",
				},
			},
		},
		raffleService: svc,
		ticketPrice:   ticketPrice,
	}
}

// Handle processes a /raffle interaction
func (c *RaffleCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return RespondWithError(s, i, "Missing subcommand")
	}

	switch options[0].Name {
	case SubcommandEnter:
		return c.handleEnter(s, i)
	case SubcommandStatus:
		return c.handleStatus(s, i)
	case SubcommandWinner:
		return c.handleWinner(s, i)
	case SubcommandBalance:
		return c.handleBalance(s, i)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown subcommand: %s", options[0].Name))
	}
}

// handleEnter buys one ticket for the caller at the fixed ticket price
func (c *RaffleCommand) handleEnter(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	user := interactionUser(i)
	if user == nil {
		return RespondWithError(s, i, "Could not identify you")
	}

	// Seed a starter balance for first-time players before charging them
	if _, err := c.raffleService.GetBalance(ctx, &raffleService.GetBalanceInput{
		PlayerID: user.ID,
	}); err != nil {
		return RespondWithError(s, i, "Something went wrong, try again")
	}

	out, err := c.raffleService.Enter(ctx, &raffleService.EnterInput{
		ChannelID:  i.ChannelID,
		PlayerID:   user.ID,
		PlayerName: user.Username,
		Amount:     c.ticketPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, raffleService.ErrRaffleNotOpen):
			return RespondWithError(s, i, "The draw is in progress, entries reopen after the winner is picked")
		case errors.Is(err, raffleService.ErrInsufficientFunds):
			return RespondWithError(s, i, fmt.Sprintf("You need %s for a ticket", formatCoins(c.ticketPrice)))
		case errors.Is(err, raffleService.ErrTicketPriceNotMet):
			return RespondWithError(s, i, fmt.Sprintf("A ticket costs %s", formatCoins(c.ticketPrice)))
		default:
			return RespondWithError(s, i, "Something went wrong, try again")
		}
	}

	return RespondWithEphemeral(s, i, fmt.Sprintf(
		"🎟️ You're in! Ticket %d of this round, pot is now %s. Balance: %s",
		len(out.Raffle.Entries), formatCoins(out.Raffle.Pot), formatCoins(out.Balance),
	))
}

// handleStatus shows the raffle's current state
func (c *RaffleCommand) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	out, err := c.raffleService.GetRaffle(context.Background(), &raffleService.GetRaffleInput{
		ChannelID: i.ChannelID,
	})
	if err != nil {
		if errors.Is(err, raffleService.ErrRaffleNotFound) {
			return RespondWithMessage(s, i, "No raffle here yet. `/raffle enter` starts one!")
		}
		return RespondWithError(s, i, "Something went wrong, try again")
	}

	return RespondWithEmbed(s, i, renderStatusEmbed(out))
}

// handleWinner shows the most recent winner
func (c *RaffleCommand) handleWinner(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	out, err := c.raffleService.GetRaffle(context.Background(), &raffleService.GetRaffleInput{
		ChannelID: i.ChannelID,
	})
	if err != nil {
		if errors.Is(err, raffleService.ErrRaffleNotFound) {
			return RespondWithMessage(s, i, "No raffle here yet. `/raffle enter` starts one!")
		}
		return RespondWithError(s, i, "Something went wrong, try again")
	}

	if out.Raffle.RecentWinnerID == "" {
		return RespondWithMessage(s, i, "No draws have completed yet")
	}

	return RespondWithMessage(s, i, fmt.Sprintf("🏆 Most recent winner: <@%s>", out.Raffle.RecentWinnerID))
}

// handleBalance shows the caller's wallet balance
func (c *RaffleCommand) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return RespondWithError(s, i, "Could not identify you")
	}

	out, err := c.raffleService.GetBalance(context.Background(), &raffleService.GetBalanceInput{
		PlayerID: user.ID,
	})
	if err != nil {
		return RespondWithError(s, i, "Something went wrong, try again")
	}

	msg := fmt.Sprintf("💰 Your balance: %s", formatCoins(out.Balance))
	if out.Granted {
		msg = fmt.Sprintf("%s (welcome bonus applied)", msg)
	}

	return RespondWithEphemeral(s, i, msg)
}
