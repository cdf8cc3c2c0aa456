package oracle

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"
)

// LocalCoordinator is an in-process Coordinator for development and tests.
// It fulfills each request from a goroutine after a configurable delay,
// standing in for the confirmation wait of a real provider.
type LocalCoordinator struct {
	mu            sync.Mutex
	random        *rand.Rand
	nextRequestID uint64
	consumer      Consumer
	delay         time.Duration
	wg            sync.WaitGroup
	closed        bool
}

// LocalConfig holds configuration for the local coordinator
type LocalConfig struct {
	// Optional seed for deterministic words in tests
	Seed int64

	// FulfillmentDelay is how long to wait before delivering words
	FulfillmentDelay time.Duration
}

// NewLocalCoordinator creates a new local coordinator
func NewLocalCoordinator(cfg *LocalConfig) *LocalCoordinator {
	var seed int64
	var delay time.Duration

	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	if cfg != nil {
		delay = cfg.FulfillmentDelay
	}

	source := rand.NewSource(seed)

	return &LocalCoordinator{
		random: rand.New(source),
		delay:  delay,
	}
}

// RegisterConsumer sets the consumer that fulfillments are delivered to.
// Must be called before the first request.
func (c *LocalCoordinator) RegisterConsumer(consumer Consumer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumer = consumer
}

// RequestRandomWords assigns a request ID and schedules an asynchronous
// fulfillment with the requested number of random words
func (c *LocalCoordinator) RequestRandomWords(ctx context.Context, input *RequestRandomWordsInput) (*RequestRandomWordsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.NumWords == 0 {
		return nil, errors.New("num words must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("coordinator is closed")
	}

	if c.consumer == nil {
		return nil, errors.New("no consumer registered")
	}

	c.nextRequestID++
	requestID := c.nextRequestID

	words := make([]uint64, input.NumWords)
	for i := range words {
		words[i] = c.random.Uint64()
	}

	consumer := c.consumer
	delay := c.delay

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		if delay > 0 {
			time.Sleep(delay)
		}

		if err := consumer.FulfillRandomWords(context.Background(), requestID, words); err != nil {
			log.Printf("Fulfillment for request %d failed: %v", requestID, err)
		}
	}()

	return &RequestRandomWordsOutput{
		RequestID: requestID,
	}, nil
}

// Close stops accepting requests and waits for in-flight fulfillments
func (c *LocalCoordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
}
