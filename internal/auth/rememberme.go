package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/audit"
	"github.com/gatehouse/gatehouse/pkg/cookie"
	"github.com/gatehouse/gatehouse/pkg/session"
)

const (
	// TokenTTL is how long an unused remember-me token stays valid.
	TokenTTL = 30 * 24 * time.Hour

	// RememberCookie carries the signed remember-me envelope.
	RememberCookie = "gh_remember"

	tokenLength   = 32
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

// RememberMeToken is a long-lived credential independent of the session.
// At most one live token exists per user.
type RememberMeToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}

// TokenStore persists remember-me tokens.
type TokenStore interface {
	Create(ctx context.Context, t *RememberMeToken) error
	Find(ctx context.Context, token string) (*RememberMeToken, error)

	// Rotate replaces the token value and bumps the timestamp in place.
	Rotate(ctx context.Context, id, token string, at time.Time) error

	DeleteOtherByUser(ctx context.Context, userID, keepID string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// rememberEnvelope is the signed, versioned cookie payload. Anything that
// does not decode to exactly this shape is rejected before any lookup.
type rememberEnvelope struct {
	Version  int    `json:"v"`
	Timezone string `json:"tz"`
	Token    string `json:"t"`
}

const rememberEnvelopeVersion = 1

// RememberMe implements silent re-authentication from a long-lived token.
type RememberMe struct {
	tokens  TokenStore
	users   UserStore
	auther  *Authenticator
	cookies *cookie.Manager
	audit   audit.Recorder
}

// NewRememberMe wires the token protocol to its collaborators.
func NewRememberMe(tokens TokenStore, users UserStore, auther *Authenticator, cookies *cookie.Manager, rec audit.Recorder) *RememberMe {
	return &RememberMe{tokens: tokens, users: users, auther: auther, cookies: cookies, audit: rec}
}

// Issue creates a fresh token for u and writes the signed cookie. Any
// older tokens of the user are dropped so exactly one stays live.
func (rm *RememberMe) Issue(ctx context.Context, w http.ResponseWriter, u *User, timezone string) error {
	token, err := newToken()
	if err != nil {
		return err
	}

	rec := &RememberMeToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if err := rm.tokens.Create(ctx, rec); err != nil {
		return err
	}
	if err := rm.tokens.DeleteOtherByUser(ctx, u.ID, rec.ID); err != nil {
		return err
	}

	return rm.writeCookie(w, timezone, token)
}

// AutoLogin attempts silent re-authentication from the cookie. On success
// sess becomes an authenticated session and the token is rotated. All
// failures come back as ErrTokenInvalid; callers treat them as "stay
// anonymous", except that a token owned by a disabled or locked user is
// actively revoked on the way out.
func (rm *RememberMe) AutoLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *session.Session) (*User, error) {
	env, err := rm.readCookie(r)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	// Stale tokens are swept before lookup so an expired one can never
	// authenticate.
	if _, err := rm.tokens.DeleteCreatedBefore(ctx, time.Now().UTC().Add(-TokenTTL)); err != nil {
		return nil, err
	}

	rec, err := rm.tokens.Find(ctx, env.Token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			rm.cookies.Delete(w, RememberCookie)
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	u, err := rm.users.FindByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			rm.cookies.Delete(w, RememberCookie)
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	if !u.Enabled || u.Locked() {
		if err := rm.tokens.DeleteByUser(ctx, u.ID); err != nil {
			return nil, err
		}
		rm.cookies.Delete(w, RememberCookie)
		return nil, ErrTokenInvalid
	}

	if err := rm.auther.Establish(ctx, sess, u, env.Timezone); err != nil {
		return nil, err
	}

	// Rotation: new value, fresh timestamp, siblings dropped.
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	if err := rm.tokens.Rotate(ctx, rec.ID, token, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := rm.tokens.DeleteOtherByUser(ctx, u.ID, rec.ID); err != nil {
		return nil, err
	}
	if err := rm.writeCookie(w, env.Timezone, token); err != nil {
		return nil, err
	}

	rm.audit.Record(ctx, audit.EventRememberMeLogin, map[string]any{"user_id": u.ID})
	return u, nil
}

// Revoke drops all tokens of a user and clears the cookie. Called on
// logout.
func (rm *RememberMe) Revoke(ctx context.Context, w http.ResponseWriter, userID string) error {
	if err := rm.tokens.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	rm.cookies.Delete(w, RememberCookie)
	return nil
}

// PurgeStale removes tokens past their TTL. Wired as a janitor task.
func (rm *RememberMe) PurgeStale(ctx context.Context) (int64, error) {
	return rm.tokens.DeleteCreatedBefore(ctx, time.Now().UTC().Add(-TokenTTL))
}

func (rm *RememberMe) writeCookie(w http.ResponseWriter, timezone, token string) error {
	data, err := json.Marshal(rememberEnvelope{
		Version:  rememberEnvelopeVersion,
		Timezone: timezone,
		Token:    token,
	})
	if err != nil {
		return err
	}
	return rm.cookies.SetSigned(w, RememberCookie, string(data), int(TokenTTL.Seconds()))
}

func (rm *RememberMe) readCookie(r *http.Request) (*rememberEnvelope, error) {
	raw, err := rm.cookies.GetSigned(r, RememberCookie)
	if err != nil {
		return nil, err
	}

	var env rememberEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, err
	}
	if env.Version != rememberEnvelopeVersion || !tokenPattern.MatchString(env.Token) {
		return nil, ErrTokenInvalid
	}
	return &env, nil
}

func newToken() (string, error) {
	out := make([]byte, tokenLength)
	maxIdx := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, maxIdx)
		if err != nil {
			return "", err
		}
		out[i] = tokenAlphabet[n.Int64()]
	}
	return string(out), nil
}
