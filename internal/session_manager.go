package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/pkg/session"
)

const (
	defaultSessionCookieName = "gh_sid"
	defaultSessionMaxIdle    = 30 * time.Minute
)

// SessionManager owns the session cookie and the store-side lifecycle:
// resume, start, extend, destroy.
type SessionManager struct {
	store      session.Store
	cookieName string
	domain     string
	path       string
	maxIdle    time.Duration
	sameSite   http.SameSite
	secure     bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a SessionManager over the given store.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookieName: defaultSessionCookieName,
		maxIdle:    defaultSessionMaxIdle,
		path:       "/",
		sameSite:   http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxIdle sets the idle window after which a session expires.
func WithSessionMaxIdle(d time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if d > 0 {
			sm.maxIdle = d
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.domain = domain
	}
}

// WithSessionSecure sets the cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.secure = secure
	}
}

// WithSessionSameSite sets the cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.sameSite = sameSite
	}
}

// MaxIdle returns the configured idle window.
func (sm *SessionManager) MaxIdle() time.Duration {
	return sm.maxIdle
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// Resume loads the session named by the request cookie.
// Returns (nil, nil) when no cookie is present, session.ErrNotFound when
// the row is gone, and the loaded session together with
// session.ErrExpired when the idle window has passed. Expiry is evaluated
// in UTC regardless of the session's own zone.
func (sm *SessionManager) Resume(ctx context.Context, r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(sm.cookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, c.Value)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired(sm.maxIdle, time.Now()) {
		return sess, session.ErrExpired
	}
	return sess, nil
}

// Start creates and persists a fresh anonymous session and sets its
// cookie.
func (sm *SessionManager) Start(ctx context.Context, w http.ResponseWriter) (*session.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	sess := session.New(uuid.NewString(), token)
	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	sm.writeCookie(w, sess.Token)
	return sess, nil
}

// Extend refreshes the session's idle window.
func (sm *SessionManager) Extend(ctx context.Context, sess *session.Session) error {
	sess.Extend(time.Now())
	return sm.store.Touch(ctx, sess.ID, sess.StartedAt)
}

// Destroy deletes the session row and clears the cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	if sess != nil {
		if err := sm.store.Delete(ctx, sess.ID); err != nil {
			return err
		}
	}
	http.SetCookie(w, sm.cookie("", -1))
	return nil
}

// Drop removes an expired session row without touching the live cookie
// handling; the caller is expected to Start a replacement.
func (sm *SessionManager) Drop(ctx context.Context, sess *session.Session) error {
	return sm.store.Delete(ctx, sess.ID)
}

// DeleteExpired removes every session whose idle window has passed. Wired
// as a janitor task.
func (sm *SessionManager) DeleteExpired(ctx context.Context) (int64, error) {
	return sm.store.DeleteStartedBefore(ctx, time.Now().UTC().Add(-sm.maxIdle))
}

func (sm *SessionManager) writeCookie(w http.ResponseWriter, token string) {
	// Session-scoped cookie: expiry lives server-side in the store.
	http.SetCookie(w, sm.cookie(token, 0))
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   maxAge,
		Secure:   sm.secure,
		HttpOnly: true,
		SameSite: sm.sameSite,
	}
}

func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
