// Package pg implements the identity, remember-me and ACL stores on
// PostgreSQL via pgx. These implementations are exercised against a real
// database; unit tests use the in-memory stores instead.
package pg
