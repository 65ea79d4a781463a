package transaction

import (
	"context"

	"forbill/internal/models"
)

// Notifier delivers outbound text to the user's chat channel. Delivery is
// fire-and-forget from the coordinator's perspective: a failed
// notification never rolls back a transaction.
type Notifier interface {
	SendText(ctx context.Context, phone, message string) error
}

// Service is the transaction coordinator. It owns every mutation of a
// Transaction record and runs purchases as a compensating sequence:
// reserve wallet funds, call the provider, commit or credit back.
type Service interface {
	// CreateTransaction resolves the provider, freezes the commission at
	// the provider's current rate, and persists a pending record with a
	// fresh unique reference.
	CreateTransaction(ctx context.Context, user *models.User, serviceType, networkCode, recipientPhone string, amount float64) (*models.Transaction, error)

	// ProcessTransaction drives a pending transaction to a terminal state.
	// Business failures (insufficient funds, gateway errors) land in the
	// record and notify the user; the returned error reports only
	// storage-level problems.
	ProcessTransaction(ctx context.Context, txn *models.Transaction) error

	// MarkRefunded annotates a failed transaction as refunded.
	MarkRefunded(ctx context.Context, reference string) (*models.Transaction, error)

	// GetByReference fetches a transaction by reference, any owner.
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)

	// GetByReferenceForUser fetches a user's transaction by reference.
	GetByReferenceForUser(ctx context.Context, reference string, userID uint) (*models.Transaction, error)

	// GetUserTransactions lists a user's most recent transactions.
	GetUserTransactions(ctx context.Context, userID uint, limit int) ([]models.Transaction, error)

	// StatusMessage formats the user-facing status line for a transaction.
	StatusMessage(txn *models.Transaction) string
}
