package auth

import (
	"context"

	"github.com/gatehouse/gatehouse/internal/audit"
	"github.com/gatehouse/gatehouse/pkg/session"
)

// Impersonator lets a super user assume another identity inside the
// current session row. No new session is created; the original identity
// is parked in FormerUserID for the way back.
type Impersonator struct {
	users    UserStore
	sessions session.Store
	audit    audit.Recorder
}

// NewImpersonator wires impersonation to its collaborators.
func NewImpersonator(users UserStore, sessions session.Store, rec audit.Recorder) *Impersonator {
	return &Impersonator{users: users, sessions: sessions, audit: rec}
}

// Start makes actor operate as the target user. Only super users may
// impersonate.
func (im *Impersonator) Start(ctx context.Context, sess *session.Session, actor *User, targetID string) error {
	if sess == nil || sess.UserID == nil {
		return ErrNoSession
	}
	if actor == nil || !actor.Super {
		return ErrNotAllowed
	}

	target, err := im.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	sess.FormerUserID = &actor.ID
	sess.UserID = &target.ID
	if err := im.sessions.Update(ctx, sess); err != nil {
		return err
	}

	im.audit.Record(ctx, audit.EventImpersonate, map[string]any{
		"user_id":  target.ID,
		"actor_id": actor.ID,
	})
	return nil
}

// Stop restores the original identity. Reported, not fatal, when there is
// no session or nothing to restore.
func (im *Impersonator) Stop(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.UserID == nil {
		return ErrNoSession
	}
	if sess.FormerUserID == nil {
		return ErrNotImpersonating
	}

	impersonated := *sess.UserID
	restored := *sess.FormerUserID

	sess.UserID = sess.FormerUserID
	sess.FormerUserID = nil
	if err := im.sessions.Update(ctx, sess); err != nil {
		return err
	}

	im.audit.Record(ctx, audit.EventImpersonateStop, map[string]any{
		"user_id":         restored,
		"impersonated_id": impersonated,
	})
	return nil
}
