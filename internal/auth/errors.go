package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown user, wrong password and
	// disabled or locked accounts alike, so the response never reveals
	// which check failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrUserNotFound  = errors.New("auth: user not found")
	ErrTokenNotFound = errors.New("auth: remember-me token not found")
	ErrTokenInvalid  = errors.New("auth: remember-me token invalid")

	ErrNoSession        = errors.New("auth: no active session")
	ErrNotImpersonating = errors.New("auth: no former user recorded")
	ErrNotAllowed       = errors.New("auth: operation not allowed")
)
