package oracle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// recordingConsumer collects fulfillments as they arrive
type recordingConsumer struct {
	mu           sync.Mutex
	fulfillments chan fulfillment
}

type fulfillment struct {
	requestID uint64
	words     []uint64
}

func newRecordingConsumer() *recordingConsumer {
	return &recordingConsumer{
		fulfillments: make(chan fulfillment, 16),
	}
}

func (c *recordingConsumer) FulfillRandomWords(_ context.Context, requestID uint64, randomWords []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fulfillments <- fulfillment{requestID: requestID, words: randomWords}
	return nil
}

type LocalCoordinatorTestSuite struct {
	suite.Suite
	coordinator *LocalCoordinator
	consumer    *recordingConsumer
	ctx         context.Context
}

func (s *LocalCoordinatorTestSuite) SetupTest() {
	s.coordinator = NewLocalCoordinator(&LocalConfig{
		Seed: 42,
	})
	s.consumer = newRecordingConsumer()
	s.coordinator.RegisterConsumer(s.consumer)
	s.ctx = context.Background()
}

func (s *LocalCoordinatorTestSuite) TearDownTest() {
	s.coordinator.Close()
}

func TestLocalCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(LocalCoordinatorTestSuite))
}

func (s *LocalCoordinatorTestSuite) waitForFulfillment() fulfillment {
	select {
	case f := <-s.consumer.fulfillments:
		return f
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for fulfillment")
		return fulfillment{}
	}
}

func (s *LocalCoordinatorTestSuite) TestRequestDeliversWords() {
	out, err := s.coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
		KeyHash:          "local",
		SubscriptionID:   1,
		CallbackGasLimit: 500000,
		NumWords:         1,
	})
	s.Require().NoError(err)
	s.Equal(uint64(1), out.RequestID)

	f := s.waitForFulfillment()
	s.Equal(uint64(1), f.requestID)
	s.Len(f.words, 1)
}

func (s *LocalCoordinatorTestSuite) TestRequestIDsIncrement() {
	for want := uint64(1); want <= 3; want++ {
		out, err := s.coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
			NumWords: 1,
		})
		s.Require().NoError(err)
		s.Equal(want, out.RequestID)
	}
}

func (s *LocalCoordinatorTestSuite) TestRequestMultipleWords() {
	_, err := s.coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
		NumWords: 3,
	})
	s.Require().NoError(err)

	f := s.waitForFulfillment()
	s.Len(f.words, 3)
}

func (s *LocalCoordinatorTestSuite) TestRequestZeroWords() {
	_, err := s.coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
		NumWords: 0,
	})
	s.Require().Error(err)
}

func (s *LocalCoordinatorTestSuite) TestRequestWithoutConsumer() {
	coordinator := NewLocalCoordinator(&LocalConfig{Seed: 42})
	defer coordinator.Close()

	_, err := coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
		NumWords: 1,
	})
	s.Require().Error(err)
}

func (s *LocalCoordinatorTestSuite) TestRequestAfterClose() {
	s.coordinator.Close()

	_, err := s.coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
		NumWords: 1,
	})
	s.Require().Error(err)
}

func (s *LocalCoordinatorTestSuite) TestCloseWaitsForInFlight() {
	coordinator := NewLocalCoordinator(&LocalConfig{
		Seed:             42,
		FulfillmentDelay: 50 * time.Millisecond,
	})
	consumer := newRecordingConsumer()
	coordinator.RegisterConsumer(consumer)

	_, err := coordinator.RequestRandomWords(s.ctx, &RequestRandomWordsInput{
		NumWords: 1,
	})
	s.Require().NoError(err)

	coordinator.Close()

	// The delayed fulfillment landed before Close returned
	select {
	case f := <-consumer.fulfillments:
		s.Equal(uint64(1), f.requestID)
	default:
		s.FailNow("fulfillment not delivered before Close returned")
	}
}
