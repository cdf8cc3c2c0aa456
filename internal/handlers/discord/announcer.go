package discord

import (
	"context"
	"fmt"
	"log"
)

// startAnnouncer subscribes to raffle events and posts them to the
// channel they belong to. Events are fire-and-forget: a failed post is
// logged and dropped.
func (b *Bot) startAnnouncer(ctx context.Context) error {
	eventCh, err := b.subscriber.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to raffle events: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-eventCh:
				if !ok {
					return
				}

				msg := renderEventMessage(event)
				if msg == "" || event.ChannelID == "" {
					continue
				}

				if _, err := b.session.ChannelMessageSend(event.ChannelID, msg); err != nil {
					log.Printf("Failed to announce %s event in channel %s: %v", event.Type, event.ChannelID, err)
				}
			}
		}
	}()

	return nil
}
