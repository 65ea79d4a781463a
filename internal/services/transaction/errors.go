package transaction

import (
	"errors"

	appErrors "forbill/internal/errors"
)

// Service errors
var (
	ErrProviderNotFound    error = appErrors.ErrProviderNotFound
	ErrTransactionNotFound error = appErrors.ErrTransactionNotFound

	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidAmount      = errors.New("invalid transaction amount")
	ErrAmountOutOfRange   = errors.New("amount outside provider limits")
	ErrReferenceExhausted = errors.New("could not generate a unique transaction reference")
	ErrNotRefundable      = errors.New("transaction is not in a refundable state")
)
