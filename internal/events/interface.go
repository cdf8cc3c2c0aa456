package events

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/raffled/internal/events Publisher

import (
	"context"

	"github.com/KirkDiggler/raffled/internal/models"
)

// Publisher broadcasts raffle events to off-process observers
type Publisher interface {
	// Publish broadcasts an event. Fire-and-forget for observers; the
	// error only reports whether the broadcast itself went out.
	Publish(ctx context.Context, event *models.Event) error
}

// Subscriber receives raffle events
type Subscriber interface {
	// Subscribe returns a channel of decoded events. The channel closes
	// when the subscriber is closed.
	Subscribe(ctx context.Context) (<-chan *models.Event, error)
}
