package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/obs"
	"github.com/gatehouse/gatehouse/pkg/cookie"
	"github.com/gatehouse/gatehouse/pkg/params"
	"github.com/gatehouse/gatehouse/pkg/routing"
	"github.com/gatehouse/gatehouse/pkg/session"
)

// returnToCookie remembers the URL requested before a login redirect.
const returnToCookie = "gh_return"

// Context carries one resolved request through its handler. It also
// implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Route returns the resolved request state: module, action,
	// parameters, order, page and flags.
	Route() *routing.Resolved

	// Param returns a named parameter (path placeholder or query).
	// Empty values read as absent.
	Param(name string) string

	// ParamAt returns the positional parameter at index i, or "".
	ParamAt(i int) string

	// Page returns the current page, always >= 1.
	Page() int

	// Order returns the order parameter, nil when the URL carried none.
	Order() *int

	// IsAjax reports the ajax flag. Ajax requests are always raw too.
	IsAjax() bool

	// IsRaw reports the raw flag.
	IsRaw() bool

	// Session returns the current session. Never nil inside a handler.
	Session() *session.Session

	// User returns the authenticated user, or nil for anonymous
	// requests.
	User() *auth.User

	// IsAuthenticated reports whether a user is bound to the session.
	IsAuthenticated() bool

	// IsImpersonating reports whether the session carries a parked
	// former identity.
	IsImpersonating() bool

	// Logger returns the request logger.
	Logger() *slog.Logger

	// JSON writes a JSON response.
	JSON(code int, v any) error

	// String writes a plain text response.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect sends an HTTP redirect to a raw URL.
	Redirect(code int, url string) error

	// RedirectToRoute redirects to the canonical URL of module/action.
	RedirectToRoute(module, action string) error

	// Error builds an HTTPError for the handler to return.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written reports whether the response has started.
	Written() bool

	// Notify queues a one-shot notice for the next rendered page.
	Notify(severity cookie.Severity, message string) error

	// Notices drains the pending notice queue.
	Notices() ([]cookie.Notice, error)

	// Cookie returns a plain request cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie with the app's defaults.
	SetCookie(name, value string, maxAge int)

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// Login runs the credential login flow against the current session.
	// With remember set, a remember-me token is issued as well.
	Login(login, password, timezone string, remember bool) (*auth.User, error)

	// Logout drops the session, revokes remember-me tokens and clears
	// cookies.
	Logout() error

	// Impersonate switches the session to the target user's identity.
	// Only super users may impersonate.
	Impersonate(targetID string) error

	// StopImpersonation restores the identity parked by Impersonate.
	StopImpersonation() error

	// PopReturnTo consumes the URL recorded before a login redirect.
	PopReturnTo() (string, bool)
}

// requestContext implements Context.
type requestContext struct {
	response *ResponseWriter
	request  *http.Request
	logger   *slog.Logger
	cookies  *cookie.Manager

	sessions     *SessionManager
	auther       *auth.Authenticator
	rememberMe   *auth.RememberMe
	impersonator *auth.Impersonator

	route *routing.Resolved
	sess  *session.Session
	user  *auth.User
}

func newContext(w *ResponseWriter, r *http.Request, a *App, route *routing.Resolved, sess *session.Session, user *auth.User) *requestContext {
	return &requestContext{
		response:     w,
		request:      r,
		logger:       a.logger,
		cookies:      a.cookies,
		sessions:     a.sessions,
		auther:       a.auther,
		rememberMe:   a.rememberMe,
		impersonator: a.impersonator,
		route:        route,
		sess:         sess,
		user:         user,
	}
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.response }
func (c *requestContext) Context() context.Context      { return c.request.Context() }
func (c *requestContext) Route() *routing.Resolved      { return c.route }
func (c *requestContext) Session() *session.Session     { return c.sess }
func (c *requestContext) User() *auth.User              { return c.user }
func (c *requestContext) Logger() *slog.Logger          { return c.logger }
func (c *requestContext) Written() bool                 { return c.response.Written() }

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	v, _ := c.route.Vars.Get(name)
	return v
}

func (c *requestContext) ParamAt(i int) string {
	v, _ := c.route.Vars.At(i)
	return v
}

func (c *requestContext) Page() int {
	return c.route.Page
}

func (c *requestContext) Order() *int {
	return c.route.Order
}

func (c *requestContext) IsAjax() bool {
	return c.route.Ajax
}

func (c *requestContext) IsRaw() bool {
	return c.route.Raw
}

func (c *requestContext) IsAuthenticated() bool {
	return c.sess != nil && c.sess.IsAuthenticated()
}

func (c *requestContext) IsImpersonating() bool {
	return c.sess != nil && c.sess.IsImpersonating()
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) RedirectToRoute(module, action string) error {
	res := &routing.Resolved{Module: module, Action: action, Page: 1, Vars: params.New()}
	return c.Redirect(http.StatusFound, res.URL())
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Notify(severity cookie.Severity, message string) error {
	return c.cookies.PushNotice(c.response, c.request, cookie.Notice{Severity: severity, Message: message})
}

func (c *requestContext) Notices() ([]cookie.Notice, error) {
	return c.cookies.PopNotices(c.response, c.request)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.response, name)
}

func (c *requestContext) Login(login, password, timezone string, remember bool) (*auth.User, error) {
	u, err := c.auther.Login(c.Context(), c.sess, login, password, timezone)
	if err != nil {
		obs.ObserveLogin(obs.LoginFailed)
		return nil, err
	}
	obs.ObserveLogin(obs.LoginOK)
	c.user = u

	if remember {
		if err := c.rememberMe.Issue(c.Context(), c.response, u, timezone); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (c *requestContext) Logout() error {
	if c.sess == nil || c.sess.UserID == nil {
		return auth.ErrNoSession
	}

	userID := *c.sess.UserID
	if err := c.rememberMe.Revoke(c.Context(), c.response, userID); err != nil {
		return err
	}
	if err := c.auther.Logout(c.Context(), c.sess); err != nil {
		return err
	}
	if err := c.sessions.Destroy(c.Context(), c.response, nil); err != nil {
		return err
	}
	c.user = nil
	return nil
}

func (c *requestContext) Impersonate(targetID string) error {
	if err := c.impersonator.Start(c.Context(), c.sess, c.user, targetID); err != nil {
		return err
	}
	// Reload the effective user.
	u, err := c.auther.UserByID(c.Context(), *c.sess.UserID)
	if err != nil {
		return err
	}
	c.user = u
	return nil
}

func (c *requestContext) StopImpersonation() error {
	if err := c.impersonator.Stop(c.Context(), c.sess); err != nil {
		return err
	}
	u, err := c.auther.UserByID(c.Context(), *c.sess.UserID)
	if err != nil {
		return err
	}
	c.user = u
	return nil
}

func (c *requestContext) PopReturnTo() (string, bool) {
	url, err := c.cookies.GetSigned(c.request, returnToCookie)
	if err != nil || url == "" {
		return "", false
	}
	c.cookies.Delete(c.response, returnToCookie)
	return url, true
}
