package session

import (
	"context"
	"time"
)

// Store is the persistence collaborator for sessions. Implementations are
// last-write-wins; no row locking is promised, so concurrent requests from
// the same user can race on extension and cleanup.
type Store interface {
	// Create persists a new session row.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its cookie token.
	// Returns ErrNotFound if no such session exists.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session row.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error

	// DeleteOtherByUser removes every session of userID except keepID.
	// Used by single-session enforcement right after login.
	DeleteOtherByUser(ctx context.Context, userID, keepID string) error

	// DeleteStartedBefore removes sessions idle since before cutoff and
	// reports how many were removed. Used by the background janitor.
	DeleteStartedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Touch refreshes StartedAt without loading the full row.
	Touch(ctx context.Context, id string, startedAt time.Time) error
}
