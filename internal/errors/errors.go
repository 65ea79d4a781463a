// Package errors defines API-facing domain errors with stable codes.
package errors

// DomainError pairs a stable machine-readable code with a human message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
