package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gatehouse/gatehouse/internal/audit"
	"github.com/gatehouse/gatehouse/pkg/session"
)

// Config tunes the authenticator.
type Config struct {
	// MatchEmail allows logging in with the e-mail address as well as
	// the username.
	MatchEmail bool

	// SingleSession deletes every other session of a user right after a
	// fresh one is established.
	SingleSession bool
}

// Authenticator runs the credential login flow and binds the outcome to
// the caller's session row.
type Authenticator struct {
	users    UserStore
	sessions session.Store
	audit    audit.Recorder
	cfg      Config
}

// NewAuthenticator wires the login flow to its collaborators.
func NewAuthenticator(users UserStore, sessions session.Store, rec audit.Recorder, cfg Config) *Authenticator {
	return &Authenticator{users: users, sessions: sessions, audit: rec, cfg: cfg}
}

// Login authenticates the credentials and, on success, rewrites sess as a
// fresh authenticated session. Every failure path increments the fault
// counter (when the user exists) and returns ErrInvalidCredentials, so
// the caller cannot distinguish unknown user, wrong password and locked
// or disabled accounts. The counter keeps incrementing past the lockout
// threshold.
func (a *Authenticator) Login(ctx context.Context, sess *session.Session, login, password, timezone string) (*User, error) {
	u, err := a.lookup(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			a.audit.Record(ctx, audit.EventLoginFailed, map[string]any{"login": login})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.Locked() || !u.Enabled || !VerifyPassword(u.Hash, password) {
		if err := a.users.RecordFailure(ctx, u.ID); err != nil {
			return nil, err
		}
		a.audit.Record(ctx, audit.EventLoginFailed, map[string]any{
			"login":   login,
			"user_id": u.ID,
		})
		return nil, ErrInvalidCredentials
	}

	if err := a.Establish(ctx, sess, u, timezone); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := a.users.RecordSuccess(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.Faults = 0
	u.PwReset = nil
	u.LastLoginAt = &now

	a.audit.Record(ctx, audit.EventLoginSuccessful, map[string]any{"user_id": u.ID})
	return u, nil
}

// Establish rewrites sess as a fresh session for u, capturing the
// caller's timezone, and enforces the single-session policy.
func (a *Authenticator) Establish(ctx context.Context, sess *session.Session, u *User, timezone string) error {
	tzName, tzOffset := ResolveTimezone(timezone)

	sess.UserID = &u.ID
	sess.FormerUserID = nil
	sess.StartedAt = time.Now().UTC()
	sess.TZName = tzName
	sess.TZOffset = tzOffset
	if err := a.sessions.Update(ctx, sess); err != nil {
		return err
	}

	if a.cfg.SingleSession {
		if err := a.sessions.DeleteOtherByUser(ctx, u.ID, sess.ID); err != nil {
			return err
		}
	}
	return nil
}

// UserByID loads a user through the configured store.
func (a *Authenticator) UserByID(ctx context.Context, id string) (*User, error) {
	return a.users.FindByID(ctx, id)
}

// Logout detaches the user from the session and audits the event.
func (a *Authenticator) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.UserID == nil {
		return ErrNoSession
	}

	userID := *sess.UserID
	if err := a.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	sess.UserID = nil
	sess.FormerUserID = nil

	a.audit.Record(ctx, audit.EventLogout, map[string]any{"user_id": userID})
	return nil
}

func (a *Authenticator) lookup(ctx context.Context, login string) (*User, error) {
	u, err := a.users.FindByUsername(ctx, login)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if a.cfg.MatchEmail {
		return a.users.FindByEmail(ctx, login)
	}
	return nil, ErrUserNotFound
}
