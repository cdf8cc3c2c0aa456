package wallet

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/raffled/internal/repositories/wallet Repository

import (
	"context"
)

// Repository defines the interface for wallet balance persistence
type Repository interface {
	// Credit adds funds to a player's wallet
	Credit(ctx context.Context, input *CreditInput) (*CreditOutput, error)

	// Debit removes funds from a player's wallet, failing if the balance
	// does not cover the amount
	Debit(ctx context.Context, input *DebitInput) (*DebitOutput, error)

	// GetBalance retrieves a player's balance
	GetBalance(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error)

	// Grant seeds a starter balance for a player who has no wallet yet
	Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error)
}
