package wallet

import "context"

// Service is the wallet ledger: the only code allowed to move money in or
// out of a user's prepaid balance. Debits and credits serialize per user
// on the underlying row lock, so concurrent purchase attempts for the
// same user cannot double-spend.
type Service interface {
	// GetBalance returns the user's current wallet balance.
	GetBalance(ctx context.Context, userID uint) (float64, error)

	// HasSufficientBalance reports whether the balance covers amount.
	HasSufficientBalance(ctx context.Context, userID uint, amount float64) (bool, error)

	// Debit atomically checks sufficiency and decrements the balance.
	// On insufficiency it returns ErrInsufficientBalance without mutating.
	Debit(ctx context.Context, userID uint, amount float64) error

	// Credit unconditionally increments the balance. It exists to reverse
	// a prior debit after a downstream failure and to fund wallets.
	Credit(ctx context.Context, userID uint, amount float64) error
}

// BalanceCache is the slice of the cache layer the ledger needs. A nil
// cache disables caching.
type BalanceCache interface {
	GetBalance(ctx context.Context, userID uint) (float64, bool, error)
	CacheBalance(ctx context.Context, userID uint, balance float64) error
	InvalidateBalance(ctx context.Context, userID uint) error
}
