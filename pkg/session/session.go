package session

import "time"

// Session is one platform session row. The Token travels in the session
// cookie; the ID is internal. UserID is nil for anonymous sessions.
// FormerUserID is set only while the session's owner impersonates another
// user and records the way back.
type Session struct {
	StartedAt    time.Time
	UserID       *string
	FormerUserID *string
	ID           string
	Token        string
	TZName       string
	TZOffset     int // seconds east of UTC, captured at login
}

// New creates a session starting now.
func New(id, token string) *Session {
	return &Session{
		ID:        id,
		Token:     token,
		StartedAt: time.Now().UTC(),
	}
}

// IsAuthenticated reports whether the session carries a user.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// IsImpersonating reports whether the session was rewritten by an
// impersonation and still records the original identity.
func (s *Session) IsImpersonating() bool {
	return s.FormerUserID != nil && *s.FormerUserID != ""
}

// IsExpired reports whether the session idled past maxIdle at instant now.
// The boundary is exclusive: a session whose StartedAt is exactly
// now-maxIdle is still live; one second older is expired. The comparison is
// instant-based (UTC), independent of the session's own timezone offset.
func (s *Session) IsExpired(maxIdle time.Duration, now time.Time) bool {
	return s.StartedAt.Before(now.UTC().Add(-maxIdle))
}

// Extend refreshes the idle window.
func (s *Session) Extend(now time.Time) {
	s.StartedAt = now.UTC()
}
