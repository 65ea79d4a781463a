package wallet

import appErrors "forbill/internal/errors"

// Service errors
var (
	ErrInsufficientBalance error = appErrors.ErrInsufficientBalance
	ErrInvalidAmount       error = appErrors.ErrInvalidAmount
	ErrUserInactive        error = appErrors.ErrUserInactive
)
