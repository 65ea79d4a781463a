package payment

import "errors"

var (
	ErrInvalidAmount    = errors.New("top-up amount must be greater than zero")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyFinalized = errors.New("payment already finalized")
)
