package gatehouse

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal"
	"github.com/gatehouse/gatehouse/internal/acl"
	"github.com/gatehouse/gatehouse/internal/audit"
	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/cookie"
	"github.com/gatehouse/gatehouse/pkg/health"
	"github.com/gatehouse/gatehouse/pkg/routing"
	"github.com/gatehouse/gatehouse/pkg/session"
)

// Type aliases - public API
type (
	// App runs the request pipeline: route resolution, session
	// lifecycle, authentication, ACL enforcement and dispatch.
	App = internal.App

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// HandlerFunc is the signature for module/action handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures the health probe endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// SessionManager owns the session cookie and lifecycle.
	SessionManager = internal.SessionManager

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// Session is one server-side session row.
	Session = session.Session

	// SessionStore persists sessions.
	SessionStore = session.Store

	// User is an authenticated account.
	User = auth.User

	// UserStore is the identity source.
	UserStore = auth.UserStore

	// TokenStore persists remember-me tokens.
	TokenStore = auth.TokenStore

	// AuthConfig tunes the login flow.
	AuthConfig = auth.Config

	// Rule names a module (and optionally an action) a group can be
	// granted.
	Rule = acl.Rule

	// RuleStore is the authorization source.
	RuleStore = acl.RuleStore

	// AuditRecorder receives security-relevant events.
	AuditRecorder = audit.Recorder

	// Route is one custom route declaration.
	Route = routing.Route

	// RouteTable is an ordered custom route table.
	RouteTable = routing.Table

	// ModuleRoutes loads the module-local route table on demand.
	ModuleRoutes = routing.ModuleRoutes

	// Resolved is the outcome of route matching.
	Resolved = routing.Resolved

	// HTTPError carries an HTTP status code alongside an error.
	HTTPError = internal.HTTPError
)

// Constructors

// New assembles the pipeline with the given options. Stores default to
// in-memory implementations, which suits tests and throwaway
// deployments only.
//
// Example:
//
//	app, err := gatehouse.New(
//	    gatehouse.WithCookieOptions(gatehouse.WithCookieSecret(secret)),
//	    gatehouse.WithSessionStore(session.NewPostgresStore(pool)),
//	    gatehouse.WithUserStore(pg.NewUserStore(pool)),
//	)
//
//	app.Handle("blog", "list", listPosts)
//	err = app.Run(":8080")
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// NewSessionManager builds a session manager over the given store.
func NewSessionManager(store SessionStore, opts ...SessionOption) *SessionManager {
	return internal.NewSessionManager(store, opts...)
}

// App options

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCookieManager sets a preconfigured cookie manager.
func WithCookieManager(m *cookie.Manager) Option {
	return internal.WithCookieManager(m)
}

// WithCookieOptions builds the cookie manager from options. Signed and
// encrypted cookies (remember-me, notices, return-to) need a secret.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieManager(cookie.New(opts...))
}

// WithSessionManager sets a preconfigured session manager.
func WithSessionManager(sm *SessionManager) Option {
	return internal.WithSessionManager(sm)
}

// WithSessionStore builds a session manager over the given store.
func WithSessionStore(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSessionStore(store, opts...)
}

// WithUserStore sets the identity source.
func WithUserStore(store UserStore) Option {
	return internal.WithUserStore(store)
}

// WithTokenStore sets the remember-me token store.
func WithTokenStore(store TokenStore) Option {
	return internal.WithTokenStore(store)
}

// WithRuleStore sets the ACL source.
func WithRuleStore(store RuleStore) Option {
	return internal.WithRuleStore(store)
}

// WithAuditRecorder sets the audit sink. Defaults to the structured
// log.
func WithAuditRecorder(rec AuditRecorder) Option {
	return internal.WithAuditRecorder(rec)
}

// WithAuthConfig tunes the login flow.
func WithAuthConfig(cfg AuthConfig) Option {
	return internal.WithAuthConfig(cfg)
}

// WithRoutes sets the application-global custom route table. These
// routes are tried before any module table and before the positional
// fallback.
func WithRoutes(t RouteTable) Option {
	return internal.WithRoutes(t)
}

// WithModuleRoutes sets the per-module route source.
func WithModuleRoutes(mr ModuleRoutes) Option {
	return internal.WithModuleRoutes(mr)
}

// WithBasePath strips a deployment prefix from every request path
// before routing.
func WithBasePath(p string) Option {
	return internal.WithBasePath(p)
}

// WithHandler registers a handler for a module/action pair.
func WithHandler(module, action string, h HandlerFunc) Option {
	return internal.WithHandler(module, action, h)
}

// WithMiddleware appends pipeline middleware, outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHTTPMiddleware appends router-level middleware, applied to every
// request before the pipeline runs.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithErrorHandler overrides error rendering.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler overrides the response for unregistered
// module/action pairs.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables the probe endpoints.
// Liveness (/health/live) answers whenever the process runs; readiness
// (/health/ready) runs all configured checks.
//
// Example:
//
//	gatehouse.WithHealthChecks(
//	    gatehouse.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealth(opts...)
}

// WithMetrics exposes the Prometheus endpoint at path.
func WithMetrics(path string) Option {
	return internal.WithMetrics(path)
}

// Health check options

// WithLivenessPath overrides the liveness endpoint path. Defaults to
// "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides the readiness endpoint path. Defaults to
// "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness probe. Checks run in
// parallel.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// ShutdownTimeout bounds graceful shutdown, server drain and hooks
// included. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs before the server starts accepting connections. A
// failing hook aborts startup.
//
// Example:
//
//	app.Run(":8080", gatehouse.StartupHook(janitor.Start))
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs during graceful shutdown, in registration order.
//
// Example:
//
//	app.Run(":8080", gatehouse.ShutdownHook(db.Shutdown(pool)))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithRunContext sets the base context for signal handling. Useful in
// tests.
func WithRunContext(ctx context.Context) RunOption {
	return internal.WithRunContext(ctx)
}

// Session options

// WithSessionCookieName sets the session cookie name. Defaults to
// "gh_sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxIdle sets the idle window after which a session
// expires. Defaults to 30 minutes.
func WithSessionMaxIdle(d time.Duration) SessionOption {
	return internal.WithSessionMaxIdle(d)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// WithSessionSameSite sets the session cookie SameSite attribute.
// Defaults to Lax.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// Cookie options

// WithCookieSecret sets the secret for signing and encryption. Must be
// at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Errors for checking return values.
var (
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrUserNotFound       = auth.ErrUserNotFound
	ErrTokenInvalid       = auth.ErrTokenInvalid
	ErrNoSession          = auth.ErrNoSession
	ErrNotAllowed         = auth.ErrNotAllowed

	ErrSessionNotFound = session.ErrNotFound
	ErrSessionExpired  = session.ErrExpired

	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieBadSig   = cookie.ErrBadSig
)

// HTTP error constructors

// NewHTTPError builds an HTTPError for handlers to return.
func NewHTTPError(code int, message string, opts ...internal.HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithError attaches a cause to an HTTPError for logging.
func WithError(err error) internal.HTTPErrorOption {
	return internal.WithError(err)
}
