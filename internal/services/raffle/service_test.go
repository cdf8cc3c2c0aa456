package raffle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/raffled/internal/common/clock"
	clockMocks "github.com/KirkDiggler/raffled/internal/common/clock/mocks"
	"github.com/KirkDiggler/raffled/internal/common/uuid"
	uuidMocks "github.com/KirkDiggler/raffled/internal/common/uuid/mocks"
	eventMocks "github.com/KirkDiggler/raffled/internal/events/mocks"
	"github.com/KirkDiggler/raffled/internal/models"
	"github.com/KirkDiggler/raffled/internal/oracle"
	oracleMocks "github.com/KirkDiggler/raffled/internal/oracle/mocks"
	raffleRepo "github.com/KirkDiggler/raffled/internal/repositories/raffle"
	raffleMocks "github.com/KirkDiggler/raffled/internal/repositories/raffle/mocks"
	walletRepo "github.com/KirkDiggler/raffled/internal/repositories/wallet"
	walletMocks "github.com/KirkDiggler/raffled/internal/repositories/wallet/mocks"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	testTicketPrice      = uint64(100)
	testInterval         = 30 * time.Second
	testStarterBalance   = uint64(1000)
	testKeyHash          = "test-key-hash"
	testSubscriptionID   = uint64(42)
	testCallbackGasLimit = uint32(500000)
)

type RaffleServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockRaffleRepo  *raffleMocks.MockRepository
	mockWalletRepo  *walletMocks.MockRepository
	mockCoordinator *oracleMocks.MockCoordinator
	mockPublisher   *eventMocks.MockPublisher
	mockClock       *clockMocks.MockClock
	mockUUID        *uuidMocks.MockUUID
	raffleService   Service
	ctx             context.Context

	// Test data
	testTime       time.Time
	testRaffleID   string
	testChannelID  string
	testPlayerID   string
	testPlayerName string
}

func (s *RaffleServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRaffleRepo = raffleMocks.NewMockRepository(s.mockCtrl)
	s.mockWalletRepo = walletMocks.NewMockRepository(s.mockCtrl)
	s.mockCoordinator = oracleMocks.NewMockCoordinator(s.mockCtrl)
	s.mockPublisher = eventMocks.NewMockPublisher(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()

	// Initialize test data
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testRaffleID = "test-raffle-id"
	s.testChannelID = "test-channel-id"
	s.testPlayerID = "test-player-id"
	s.testPlayerName = "Test Player"

	// Set up the clock mock to return our test time
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	// Create the service with mocked dependencies
	svc, err := New(&Config{
		TicketPrice:      testTicketPrice,
		Interval:         testInterval,
		StarterBalance:   testStarterBalance,
		KeyHash:          testKeyHash,
		SubscriptionID:   testSubscriptionID,
		CallbackGasLimit: testCallbackGasLimit,
		RaffleRepo:       s.mockRaffleRepo,
		WalletRepo:       s.mockWalletRepo,
		Coordinator:      s.mockCoordinator,
		Publisher:        s.mockPublisher,
		Clock:            s.mockClock,
		UUIDGenerator:    s.mockUUID,
	})
	s.Require().NoError(err)
	s.raffleService = svc
}

func (s *RaffleServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRaffleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RaffleServiceTestSuite))
}

// entry builds a ticket for the test raffle
func (s *RaffleServiceTestSuite) entry(ticketID, playerID, playerName string) *models.Entry {
	return &models.Entry{
		ID:         ticketID,
		RaffleID:   s.testRaffleID,
		PlayerID:   playerID,
		PlayerName: playerName,
		Amount:     testTicketPrice,
		EnteredAt:  s.testTime.Add(-time.Minute),
	}
}

// eligibleRaffle builds an open raffle whose interval has elapsed, with
// the given tickets
func (s *RaffleServiceTestSuite) eligibleRaffle(entries ...*models.Entry) *models.Raffle {
	return &models.Raffle{
		ID:           s.testRaffleID,
		ChannelID:    s.testChannelID,
		State:        models.RaffleStateOpen,
		Entries:      entries,
		Pot:          testTicketPrice * uint64(len(entries)),
		LastDrawTime: s.testTime.Add(-31 * time.Second),
		CreatedAt:    s.testTime.Add(-time.Hour),
		UpdatedAt:    s.testTime.Add(-time.Minute),
	}
}

// calculatingRaffle builds a raffle with a draw in flight
func (s *RaffleServiceTestSuite) calculatingRaffle(requestID uint64, entries ...*models.Entry) *models.Raffle {
	raffle := s.eligibleRaffle(entries...)
	raffle.State = models.RaffleStateCalculating
	raffle.OracleRequestID = requestID
	return raffle
}

func (s *RaffleServiceTestSuite) expectGetByChannel(raffle *models.Raffle, err error) {
	s.mockRaffleRepo.EXPECT().
		GetRaffleByChannel(gomock.Any(), &raffleRepo.GetRaffleByChannelInput{
			ChannelID: s.testChannelID,
		}).
		Return(raffle, err)
}

func (s *RaffleServiceTestSuite) TestEnterBelowTicketPrice() {
	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice - 1,
	})

	s.Require().ErrorIs(err, ErrTicketPriceNotMet)
	s.Nil(output)
}

func (s *RaffleServiceTestSuite) TestEnterWhileCalculating() {
	raffle := s.calculatingRaffle(7, s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice,
	})

	s.Require().ErrorIs(err, ErrRaffleNotOpen)
	s.Nil(output)
}

func (s *RaffleServiceTestSuite) TestEnterAppendsExactlyOneTicket() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	s.mockUUID.EXPECT().NewUUID().Return("ticket-2")

	s.mockWalletRepo.EXPECT().
		Debit(gomock.Any(), &walletRepo.DebitInput{
			PlayerID: s.testPlayerID,
			Amount:   testTicketPrice,
		}).
		Return(&walletRepo.DebitOutput{Balance: 900}, nil)

	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *raffleRepo.SaveRaffleInput) error {
			s.Len(input.Raffle.Entries, 2)
			s.Equal("ticket-2", input.Raffle.Entries[1].ID)
			s.Equal(s.testPlayerID, input.Raffle.Entries[1].PlayerID)
			s.Equal(testTicketPrice*2, input.Raffle.Pot)
			s.Equal(models.RaffleStateOpen, input.Raffle.State)
			return nil
		})

	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), &models.Event{
			Type:       models.EventTypePlayerEntered,
			RaffleID:   s.testRaffleID,
			ChannelID:  s.testChannelID,
			PlayerID:   s.testPlayerID,
			PlayerName: s.testPlayerName,
			Amount:     testTicketPrice,
			Timestamp:  s.testTime,
		}).
		Return(nil)

	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice,
	})

	s.Require().NoError(err)
	s.Require().NotNil(output)
	s.Equal("ticket-2", output.TicketID)
	s.Equal(uint64(900), output.Balance)
	s.Len(output.Raffle.Entries, 2)
}

func (s *RaffleServiceTestSuite) TestEnterSamePlayerTwiceHoldsTwoTickets() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", s.testPlayerID, s.testPlayerName))
	s.expectGetByChannel(raffle, nil)

	s.mockUUID.EXPECT().NewUUID().Return("ticket-2")

	s.mockWalletRepo.EXPECT().
		Debit(gomock.Any(), gomock.Any()).
		Return(&walletRepo.DebitOutput{Balance: 800}, nil)

	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *raffleRepo.SaveRaffleInput) error {
			s.Len(input.Raffle.Entries, 2)
			s.Equal(s.testPlayerID, input.Raffle.Entries[0].PlayerID)
			s.Equal(s.testPlayerID, input.Raffle.Entries[1].PlayerID)
			return nil
		})

	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice,
	})

	s.Require().NoError(err)
	s.Len(output.Raffle.Entries, 2)
}

func (s *RaffleServiceTestSuite) TestEnterCreatesRaffleOnFirstEntry() {
	s.expectGetByChannel(nil, raffleRepo.ErrRaffleNotFound)

	// One UUID for the new raffle, one for the ticket
	s.mockUUID.EXPECT().NewUUID().Return(s.testRaffleID)
	s.mockUUID.EXPECT().NewUUID().Return("ticket-1")

	s.mockWalletRepo.EXPECT().
		Debit(gomock.Any(), gomock.Any()).
		Return(&walletRepo.DebitOutput{Balance: 900}, nil)

	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *raffleRepo.SaveRaffleInput) error {
			s.Equal(s.testRaffleID, input.Raffle.ID)
			s.Equal(s.testChannelID, input.Raffle.ChannelID)
			s.Equal(models.RaffleStateOpen, input.Raffle.State)
			s.Len(input.Raffle.Entries, 1)
			s.Equal(testTicketPrice, input.Raffle.Pot)
			// The interval counts from creation for a fresh raffle
			s.Equal(s.testTime, input.Raffle.LastDrawTime)
			return nil
		})

	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice,
	})

	s.Require().NoError(err)
	s.Equal("ticket-1", output.TicketID)
}

func (s *RaffleServiceTestSuite) TestEnterInsufficientFunds() {
	raffle := s.eligibleRaffle()
	s.expectGetByChannel(raffle, nil)

	s.mockWalletRepo.EXPECT().
		Debit(gomock.Any(), gomock.Any()).
		Return(nil, walletRepo.ErrInsufficientFunds)

	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice,
	})

	s.Require().ErrorIs(err, ErrInsufficientFunds)
	s.Nil(output)
}

func (s *RaffleServiceTestSuite) TestEnterRefundsWhenSaveFails() {
	raffle := s.eligibleRaffle()
	s.expectGetByChannel(raffle, nil)

	s.mockUUID.EXPECT().NewUUID().Return("ticket-1")

	s.mockWalletRepo.EXPECT().
		Debit(gomock.Any(), gomock.Any()).
		Return(&walletRepo.DebitOutput{Balance: 900}, nil)

	saveErr := errors.New("redis is down")
	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		Return(saveErr)

	// The payment comes back when the ticket cannot be recorded
	s.mockWalletRepo.EXPECT().
		Credit(gomock.Any(), &walletRepo.CreditInput{
			PlayerID: s.testPlayerID,
			Amount:   testTicketPrice,
		}).
		Return(&walletRepo.CreditOutput{Balance: 1000}, nil)

	output, err := s.raffleService.Enter(s.ctx, &EnterInput{
		ChannelID:  s.testChannelID,
		PlayerID:   s.testPlayerID,
		PlayerName: s.testPlayerName,
		Amount:     testTicketPrice,
	})

	s.Require().ErrorIs(err, saveErr)
	s.Nil(output)
}

func (s *RaffleServiceTestSuite) TestCheckUpkeepAllConditionsMet() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.CheckUpkeep(s.ctx, &CheckUpkeepInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.True(output.UpkeepNeeded)
	s.True(output.IntervalElapsed)
	s.True(output.IsOpen)
	s.Equal(testTicketPrice, output.Pot)
	s.Equal(1, output.EntryCount)
}

func (s *RaffleServiceTestSuite) TestCheckUpkeepNoEntries() {
	// Interval elapsed long ago, but nobody entered
	raffle := s.eligibleRaffle()
	raffle.LastDrawTime = s.testTime.Add(-time.Hour)
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.CheckUpkeep(s.ctx, &CheckUpkeepInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.False(output.UpkeepNeeded)
	s.True(output.IntervalElapsed)
	s.Equal(0, output.EntryCount)
}

func (s *RaffleServiceTestSuite) TestCheckUpkeepWhileCalculating() {
	raffle := s.calculatingRaffle(7, s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.CheckUpkeep(s.ctx, &CheckUpkeepInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.False(output.UpkeepNeeded)
	s.False(output.IsOpen)
}

func (s *RaffleServiceTestSuite) TestCheckUpkeepIntervalNotElapsed() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	raffle.LastDrawTime = s.testTime.Add(-10 * time.Second)
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.CheckUpkeep(s.ctx, &CheckUpkeepInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.False(output.UpkeepNeeded)
	s.False(output.IntervalElapsed)
}

func (s *RaffleServiceTestSuite) TestCheckUpkeepNoRaffle() {
	s.expectGetByChannel(nil, raffleRepo.ErrRaffleNotFound)

	output, err := s.raffleService.CheckUpkeep(s.ctx, &CheckUpkeepInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.False(output.UpkeepNeeded)
}

func (s *RaffleServiceTestSuite) TestRequestDrawTransitionsToCalculating() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	s.mockCoordinator.EXPECT().
		RequestRandomWords(gomock.Any(), &oracle.RequestRandomWordsInput{
			KeyHash:              testKeyHash,
			SubscriptionID:       testSubscriptionID,
			RequestConfirmations: 3,
			CallbackGasLimit:     testCallbackGasLimit,
			NumWords:             1,
		}).
		Return(&oracle.RequestRandomWordsOutput{RequestID: 7}, nil)

	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *raffleRepo.SaveRaffleInput) error {
			s.Equal(models.RaffleStateCalculating, input.Raffle.State)
			s.Equal(uint64(7), input.Raffle.OracleRequestID)
			// Entries and pot stay put until the fulfillment lands
			s.Len(input.Raffle.Entries, 1)
			s.Equal(testTicketPrice, input.Raffle.Pot)
			return nil
		})

	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), &models.Event{
			Type:      models.EventTypeDrawRequested,
			RaffleID:  s.testRaffleID,
			ChannelID: s.testChannelID,
			RequestID: 7,
			Timestamp: s.testTime,
		}).
		Return(nil)

	output, err := s.raffleService.RequestDraw(s.ctx, &RequestDrawInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.Equal(uint64(7), output.RequestID)
	s.Equal(models.RaffleStateCalculating, output.Raffle.State)
}

func (s *RaffleServiceTestSuite) TestRequestDrawNotEligible() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	raffle.LastDrawTime = s.testTime.Add(-10 * time.Second)
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.RequestDraw(s.ctx, &RequestDrawInput{
		ChannelID: s.testChannelID,
	})

	s.Require().Error(err)
	s.Nil(output)

	var notNeeded *UpkeepNotNeededError
	s.Require().ErrorAs(err, &notNeeded)
	s.Equal(testTicketPrice, notNeeded.Pot)
	s.Equal(1, notNeeded.EntryCount)
	s.Equal(models.RaffleStateOpen, notNeeded.State)
}

func (s *RaffleServiceTestSuite) TestRequestDrawWhileCalculating() {
	// A second request while one is in flight fails the eligibility
	// re-check, which is the duplicate-request guard
	raffle := s.calculatingRaffle(7, s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.RequestDraw(s.ctx, &RequestDrawInput{
		ChannelID: s.testChannelID,
	})

	s.Require().Error(err)
	s.Nil(output)

	var notNeeded *UpkeepNotNeededError
	s.Require().ErrorAs(err, &notNeeded)
	s.Equal(models.RaffleStateCalculating, notNeeded.State)
}

func (s *RaffleServiceTestSuite) TestRequestDrawNoRaffle() {
	s.expectGetByChannel(nil, raffleRepo.ErrRaffleNotFound)

	output, err := s.raffleService.RequestDraw(s.ctx, &RequestDrawInput{
		ChannelID: s.testChannelID,
	})

	s.Require().ErrorIs(err, ErrRaffleNotFound)
	s.Nil(output)
}

func (s *RaffleServiceTestSuite) TestFulfillSelectsWinnerByModulo() {
	// Four tickets, random word 5: 5 mod 4 = 1, Player B wins
	raffle := s.calculatingRaffle(7,
		s.entry("ticket-1", "player-a", "Player A"),
		s.entry("ticket-2", "player-b", "Player B"),
		s.entry("ticket-3", "player-c", "Player C"),
		s.entry("ticket-4", "player-d", "Player D"),
	)

	// Once to locate the channel, once again under its lock
	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), &raffleRepo.GetRaffleByRequestInput{
			RequestID: 7,
		}).
		Return(raffle, nil).
		Times(2)

	s.mockWalletRepo.EXPECT().
		Credit(gomock.Any(), &walletRepo.CreditInput{
			PlayerID: "player-b",
			Amount:   testTicketPrice * 4,
		}).
		Return(&walletRepo.CreditOutput{Balance: 1300}, nil)

	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *raffleRepo.SaveRaffleInput) error {
			s.Equal("player-b", input.Raffle.RecentWinnerID)
			s.Equal("Player B", input.Raffle.RecentWinnerName)
			s.Empty(input.Raffle.Entries)
			s.Equal(uint64(0), input.Raffle.Pot)
			s.Equal(models.RaffleStateOpen, input.Raffle.State)
			s.Equal(s.testTime, input.Raffle.LastDrawTime)
			s.Equal(uint64(0), input.Raffle.OracleRequestID)
			return nil
		})

	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), &models.Event{
			Type:       models.EventTypeWinnerSelected,
			RaffleID:   s.testRaffleID,
			ChannelID:  s.testChannelID,
			PlayerID:   "player-b",
			PlayerName: "Player B",
			RequestID:  7,
			Amount:     testTicketPrice * 4,
			Timestamp:  s.testTime,
		}).
		Return(nil)

	err := s.raffleService.FulfillRandomWords(s.ctx, 7, []uint64{5})
	s.Require().NoError(err)
}

func (s *RaffleServiceTestSuite) TestFulfillSingleTicketAlwaysWins() {
	// 7 mod 1 = 0, the only entrant wins their own stake back
	raffle := s.calculatingRaffle(1, s.entry("ticket-1", "player-a", "Player A"))

	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), gomock.Any()).
		Return(raffle, nil).
		Times(2)

	s.mockWalletRepo.EXPECT().
		Credit(gomock.Any(), &walletRepo.CreditInput{
			PlayerID: "player-a",
			Amount:   testTicketPrice,
		}).
		Return(&walletRepo.CreditOutput{Balance: 1000}, nil)

	s.mockRaffleRepo.EXPECT().
		SaveRaffle(gomock.Any(), gomock.Any()).
		Return(nil)

	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	err := s.raffleService.FulfillRandomWords(s.ctx, 1, []uint64{7})
	s.Require().NoError(err)
}

func (s *RaffleServiceTestSuite) TestFulfillUnknownRequest() {
	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), &raffleRepo.GetRaffleByRequestInput{
			RequestID: 99,
		}).
		Return(nil, raffleRepo.ErrRaffleNotFound)

	err := s.raffleService.FulfillRandomWords(s.ctx, 99, []uint64{5})
	s.Require().ErrorIs(err, ErrUnknownRequest)
}

func (s *RaffleServiceTestSuite) TestFulfillMismatchedRequestID() {
	// A stale index entry can hand back a raffle whose outstanding
	// request is a different one
	raffle := s.calculatingRaffle(8, s.entry("ticket-1", "player-a", "Player A"))

	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), gomock.Any()).
		Return(raffle, nil).
		Times(2)

	err := s.raffleService.FulfillRandomWords(s.ctx, 7, []uint64{5})
	s.Require().ErrorIs(err, ErrUnknownRequest)
}

func (s *RaffleServiceTestSuite) TestFulfillNoRandomWords() {
	raffle := s.calculatingRaffle(7, s.entry("ticket-1", "player-a", "Player A"))

	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), gomock.Any()).
		Return(raffle, nil).
		Times(2)

	err := s.raffleService.FulfillRandomWords(s.ctx, 7, nil)
	s.Require().ErrorIs(err, ErrNoRandomWords)
}

func (s *RaffleServiceTestSuite) TestFulfillPayoutFailureRollsBack() {
	raffle := s.calculatingRaffle(7,
		s.entry("ticket-1", "player-a", "Player A"),
		s.entry("ticket-2", "player-b", "Player B"),
	)

	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), gomock.Any()).
		Return(raffle, nil).
		Times(2)

	s.mockWalletRepo.EXPECT().
		Credit(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("wallet rejected the credit"))

	// No SaveRaffle expectation: the stored raffle must stay exactly as
	// it was, still calculating with its entries intact

	err := s.raffleService.FulfillRandomWords(s.ctx, 7, []uint64{5})
	s.Require().ErrorIs(err, ErrWinnerPayoutFailed)
}

func (s *RaffleServiceTestSuite) TestGetRaffle() {
	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)

	output, err := s.raffleService.GetRaffle(s.ctx, &GetRaffleInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.Equal(raffle, output.Raffle)
	s.Equal(testTicketPrice, output.TicketPrice)
	s.Equal(raffle.LastDrawTime.Add(testInterval), output.NextDrawTime)
}

func (s *RaffleServiceTestSuite) TestGetRaffleNotFound() {
	s.expectGetByChannel(nil, raffleRepo.ErrRaffleNotFound)

	output, err := s.raffleService.GetRaffle(s.ctx, &GetRaffleInput{
		ChannelID: s.testChannelID,
	})

	s.Require().ErrorIs(err, ErrRaffleNotFound)
	s.Nil(output)
}

func (s *RaffleServiceTestSuite) TestGetBalanceSeedsStarter() {
	s.mockWalletRepo.EXPECT().
		Grant(gomock.Any(), &walletRepo.GrantInput{
			PlayerID: s.testPlayerID,
			Amount:   testStarterBalance,
		}).
		Return(&walletRepo.GrantOutput{Granted: true, Balance: testStarterBalance}, nil)

	output, err := s.raffleService.GetBalance(s.ctx, &GetBalanceInput{
		PlayerID: s.testPlayerID,
	})

	s.Require().NoError(err)
	s.True(output.Granted)
	s.Equal(testStarterBalance, output.Balance)
}

func (s *RaffleServiceTestSuite) TestNewRequiresDependencies() {
	_, err := New(nil)
	s.Require().ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.Require().ErrorIs(err, ErrNilRaffleRepo)

	_, err = New(&Config{
		RaffleRepo: s.mockRaffleRepo,
	})
	s.Require().ErrorIs(err, ErrNilWalletRepo)
}

// fakeCoordinator records requests and lets the test deliver the
// fulfillment itself, like a provider that takes its time
type fakeCoordinator struct {
	nextRequestID uint64
	lastInput     *oracle.RequestRandomWordsInput
}

func (f *fakeCoordinator) RequestRandomWords(_ context.Context, input *oracle.RequestRandomWordsInput) (*oracle.RequestRandomWordsOutput, error) {
	f.nextRequestID++
	f.lastInput = input
	return &oracle.RequestRandomWordsOutput{RequestID: f.nextRequestID}, nil
}

// nopPublisher drops events, for lifecycle tests that only care about state
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *models.Event) error { return nil }

func (s *RaffleServiceTestSuite) TestFullDrawCycle() {
	// End to end against the mocks arranged like a real round: enter,
	// wait out the interval, request, fulfill, and the raffle is open
	// again with an empty pot
	coordinator := &fakeCoordinator{}

	svc, err := New(&Config{
		TicketPrice:      testTicketPrice,
		Interval:         testInterval,
		StarterBalance:   testStarterBalance,
		KeyHash:          testKeyHash,
		SubscriptionID:   testSubscriptionID,
		CallbackGasLimit: testCallbackGasLimit,
		RaffleRepo:       s.mockRaffleRepo,
		WalletRepo:       s.mockWalletRepo,
		Coordinator:      coordinator,
		Publisher:        nopPublisher{},
		Clock:            s.mockClock,
		UUIDGenerator:    s.mockUUID,
	})
	s.Require().NoError(err)

	raffle := s.eligibleRaffle(s.entry("ticket-1", "player-a", "Player A"))
	s.expectGetByChannel(raffle, nil)
	s.mockRaffleRepo.EXPECT().SaveRaffle(gomock.Any(), gomock.Any()).Return(nil)

	drawOut, err := svc.RequestDraw(s.ctx, &RequestDrawInput{ChannelID: s.testChannelID})
	s.Require().NoError(err)
	s.Equal(uint64(1), drawOut.RequestID)

	// The outbound request asks for exactly one word with three
	// confirmations
	s.Require().NotNil(coordinator.lastInput)
	s.Equal(uint32(1), coordinator.lastInput.NumWords)
	s.Equal(uint16(3), coordinator.lastInput.RequestConfirmations)

	s.mockRaffleRepo.EXPECT().
		GetRaffleByRequest(gomock.Any(), &raffleRepo.GetRaffleByRequestInput{RequestID: 1}).
		Return(raffle, nil).
		Times(2)
	s.mockWalletRepo.EXPECT().
		Credit(gomock.Any(), &walletRepo.CreditInput{PlayerID: "player-a", Amount: testTicketPrice}).
		Return(&walletRepo.CreditOutput{Balance: 1000}, nil)
	s.mockRaffleRepo.EXPECT().SaveRaffle(gomock.Any(), gomock.Any()).Return(nil)

	s.Require().NoError(svc.FulfillRandomWords(s.ctx, 1, []uint64{7}))
	s.Equal("player-a", raffle.RecentWinnerID)
	s.Equal(models.RaffleStateOpen, raffle.State)
	s.Empty(raffle.Entries)
	s.Equal(uint64(0), raffle.Pot)
}

// TestConcurrentEntersKeepEveryTicket runs interleaved entries against
// real redis-backed repositories. Every debit must end up with a matching
// ticket and the pot must equal tickets times price; a lost update would
// swallow a paid ticket.
func TestConcurrentEntersKeepEveryTicket(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	raffles, err := raffleRepo.NewRedis(&raffleRepo.Config{RedisClient: client})
	require.NoError(t, err)

	wallets, err := walletRepo.NewRedis(&walletRepo.Config{RedisClient: client})
	require.NoError(t, err)

	svc, err := New(&Config{
		TicketPrice:      testTicketPrice,
		Interval:         time.Hour,
		StarterBalance:   testStarterBalance,
		KeyHash:          testKeyHash,
		SubscriptionID:   testSubscriptionID,
		CallbackGasLimit: testCallbackGasLimit,
		RaffleRepo:       raffles,
		WalletRepo:       wallets,
		Coordinator:      &fakeCoordinator{},
		Publisher:        nopPublisher{},
		Clock:            &clock.DefaultClock{},
		UUIDGenerator:    uuid.New(),
	})
	require.NoError(t, err)

	const players = 10
	ctx := context.Background()

	for i := 0; i < players; i++ {
		_, err := wallets.Credit(ctx, &walletRepo.CreditInput{
			PlayerID: fmt.Sprintf("player-%d", i),
			Amount:   testStarterBalance,
		})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, players)

	for i := 0; i < players; i++ {
		playerID := fmt.Sprintf("player-%d", i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := svc.Enter(ctx, &EnterInput{
				ChannelID:  "channel-1",
				PlayerID:   playerID,
				PlayerName: playerID,
				Amount:     testTicketPrice,
			})
			errs <- err
		}()
	}

	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	raffle, err := raffles.GetRaffleByChannel(ctx, &raffleRepo.GetRaffleByChannelInput{
		ChannelID: "channel-1",
	})
	require.NoError(t, err)
	assert.Len(t, raffle.Entries, players)
	assert.Equal(t, testTicketPrice*players, raffle.Pot)

	holders := make(map[string]int)
	for _, entry := range raffle.Entries {
		holders[entry.PlayerID]++
	}

	for i := 0; i < players; i++ {
		playerID := fmt.Sprintf("player-%d", i)

		assert.Equal(t, 1, holders[playerID], "player %s should hold exactly one ticket", playerID)

		balOut, err := wallets.GetBalance(ctx, &walletRepo.GetBalanceInput{
			PlayerID: playerID,
		})
		require.NoError(t, err)
		assert.Equal(t, testStarterBalance-testTicketPrice, balOut.Balance)
	}
}
