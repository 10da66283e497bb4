package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned by the lifecycle manager when a session
	// idled past its timeout and has been removed.
	ErrExpired = errors.New("session: expired")
)
