package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/raffled/internal/events"
	raffleService "github.com/KirkDiggler/raffled/internal/services/raffle"
	"github.com/bwmarrin/discordgo"
)

// Bot represents the Discord bot instance
type Bot struct {
	session       *discordgo.Session
	commands      map[string]CommandHandler
	commandIDs    map[string]string // Maps command name to command ID
	raffleService raffleService.Service
	subscriber    events.Subscriber
	config        *Config

	cancelAnnouncer context.CancelFunc
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Raffle service
	RaffleService raffleService.Service

	// Event subscriber for channel announcements
	Subscriber events.Subscriber

	// TicketPrice is the fixed entry fee, shown to players and paid on
	// /raffle enter
	TicketPrice uint64
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.RaffleService == nil {
		return nil, errors.New("raffle service cannot be nil")
	}

	if cfg.Subscriber == nil {
		return nil, errors.New("event subscriber cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:       session,
		commands:      make(map[string]CommandHandler),
		commandIDs:    make(map[string]string),
		raffleService: cfg.RaffleService,
		subscriber:    cfg.Subscriber,
		config:        cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection, registers commands and begins
// announcing raffle events
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register the raffle command
	raffleCmd := NewRaffleCommand(b.raffleService, b.config.TicketPrice)
	if err := b.RegisterCommand(raffleCmd); err != nil {
		return fmt.Errorf("failed to register raffle command: %w", err)
	}

	// Start announcing raffle events to their channels
	ctx, cancel := context.WithCancel(context.Background())
	b.cancelAnnouncer = cancel

	if err := b.startAnnouncer(ctx); err != nil {
		return fmt.Errorf("failed to start announcer: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	if b.cancelAnnouncer != nil {
		b.cancelAnnouncer()
	}

	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// handleInteraction dispatches incoming interactions to their command
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := b.commands[name]
	if !ok {
		log.Printf("No handler for command: %s", name)
		return
	}

	if err := cmd.Handle(s, i); err != nil {
		log.Printf("Command %s failed: %v", name, err)
	}
}
