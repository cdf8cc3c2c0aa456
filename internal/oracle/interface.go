package oracle

//go:generate mockgen -package=mocks -destination=mocks/mock_coordinator.go github.com/KirkDiggler/raffled/internal/oracle Coordinator

import (
	"context"
)

// Coordinator is the boundary with the randomness provider. The raffle
// service issues exactly one outbound request per draw and receives the
// result later through the Consumer callback.
type Coordinator interface {
	// RequestRandomWords asks the provider for random words and returns
	// the identifier it assigned to the request
	RequestRandomWords(ctx context.Context, input *RequestRandomWordsInput) (*RequestRandomWordsOutput, error)
}

// Consumer receives fulfillments. The raffle service implements this; the
// coordinator calls it exactly once per request, asynchronously.
type Consumer interface {
	// FulfillRandomWords delivers the random words for an earlier request
	FulfillRandomWords(ctx context.Context, requestID uint64, randomWords []uint64) error
}
