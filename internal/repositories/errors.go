package repositories

import "errors"

// Sentinel errors returned by the data access layer.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSessionNotFound     = errors.New("conversation session not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrTemplateNotFound    = errors.New("message template not found")
	ErrDuplicateReference  = errors.New("duplicate reference")
)
