package errors

var (
	ErrProviderNotFound = &DomainError{
		Code:    "PROVIDER_NOT_FOUND",
		Message: "no active provider for the requested network and service",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
)
