// Package auth implements the authentication state machine: credential
// login with fault lockout, remember-me auto-login, and impersonation.
package auth
