package wallet

// CreditInput contains parameters for crediting a wallet
type CreditInput struct {
	// PlayerID is the Discord user ID of the wallet owner
	PlayerID string

	// Amount is how much to add, in the smallest currency unit
	Amount uint64
}

// CreditOutput contains the result of crediting a wallet
type CreditOutput struct {
	// Balance is the balance after the credit
	Balance uint64
}

// DebitInput contains parameters for debiting a wallet
type DebitInput struct {
	// PlayerID is the Discord user ID of the wallet owner
	PlayerID string

	// Amount is how much to remove, in the smallest currency unit
	Amount uint64
}

// DebitOutput contains the result of debiting a wallet
type DebitOutput struct {
	// Balance is the balance after the debit
	Balance uint64
}

// GetBalanceInput contains parameters for retrieving a balance
type GetBalanceInput struct {
	// PlayerID is the Discord user ID of the wallet owner
	PlayerID string
}

// GetBalanceOutput contains the result of retrieving a balance
type GetBalanceOutput struct {
	// Balance is the current balance. Zero for players with no wallet.
	Balance uint64
}

// GrantInput contains parameters for seeding a starter balance
type GrantInput struct {
	// PlayerID is the Discord user ID of the wallet owner
	PlayerID string

	// Amount is the starter balance
	Amount uint64
}

// GrantOutput contains the result of seeding a starter balance
type GrantOutput struct {
	// Granted indicates whether the starter balance was applied. False
	// when the player already had a wallet.
	Granted bool

	// Balance is the balance after the grant
	Balance uint64
}
