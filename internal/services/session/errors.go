package session

import "errors"

var (
	// ErrSessionNotFound indicates no session row exists for the user.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidStep indicates a step transition the table does not allow.
	ErrInvalidStep = errors.New("invalid session step transition")
)
