package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gatehouse/gatehouse/internal/acl"
	"github.com/gatehouse/gatehouse/internal/audit"
	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/obs"
	"github.com/gatehouse/gatehouse/pkg/cookie"
	"github.com/gatehouse/gatehouse/pkg/health"
	"github.com/gatehouse/gatehouse/pkg/logger"
	"github.com/gatehouse/gatehouse/pkg/routing"
	"github.com/gatehouse/gatehouse/pkg/session"
)

// Server timeouts, hardcoded and opinionated.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// pageCookieMaxAge bounds the per-listing page memory.
const pageCookieMaxAge = 30 * 24 * 60 * 60

// Login entry point, also the redirect target for anonymous and expired
// requests.
const (
	loginModule = "user"
	loginAction = "login"
)

// App runs the request pipeline: parse, match, session, identity, ACL,
// dispatch. Handlers are registered per (module, action) pair; there is
// no dynamic handler discovery.
type App struct {
	router  chi.Router
	logger  *slog.Logger
	cookies *cookie.Manager

	sessions     *SessionManager
	users        auth.UserStore
	tokens       auth.TokenStore
	rules        acl.RuleStore
	auther       *auth.Authenticator
	rememberMe   *auth.RememberMe
	impersonator *auth.Impersonator
	audit        audit.Recorder

	parser       *routing.Parser
	matcher      *routing.Matcher
	appRoutes    routing.Table
	moduleRoutes routing.ModuleRoutes
	authCfg      auth.Config

	handlers        map[string]HandlerFunc
	middlewares     []Middleware
	httpMiddlewares []func(http.Handler) http.Handler
	errorHandler    ErrorHandler
	notFound        HandlerFunc

	healthConfig *healthConfig
	metricsPath  string
	basePath     string
}

// Option configures the App.
type Option func(*App)

// New assembles the pipeline. Missing stores default to in-memory
// implementations, which suits tests and throwaway deployments only.
func New(opts ...Option) (*App, error) {
	a := &App{
		router:   chi.NewRouter(),
		logger:   logger.Discard(),
		cookies:  cookie.New(),
		handlers: make(map[string]HandlerFunc),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.sessions == nil {
		a.sessions = NewSessionManager(session.NewMemoryStore())
	}
	if a.users == nil {
		a.users = auth.NewMemoryUserStore()
	}
	if a.tokens == nil {
		a.tokens = auth.NewMemoryTokenStore()
	}
	if a.rules == nil {
		a.rules = acl.NewMemoryRuleStore()
	}
	if a.audit == nil {
		a.audit = audit.NewLogRecorder(a.logger)
	}

	a.auther = auth.NewAuthenticator(a.users, a.sessions.Store(), a.audit, a.authCfg)
	a.rememberMe = auth.NewRememberMe(a.tokens, a.users, a.auther, a.cookies, a.audit)
	a.impersonator = auth.NewImpersonator(a.users, a.sessions.Store(), a.audit)

	a.parser = routing.NewParser(a.basePath)
	matcher, err := routing.NewMatcher(a.appRoutes, a.moduleRoutes)
	if err != nil {
		return nil, fmt.Errorf("compile routes: %w", err)
	}
	a.matcher = matcher

	a.setupRoutes()
	return a, nil
}

// Handle registers the handler for a module/action pair. Registration
// after New but before Run is allowed; the registry is not safe for
// mutation while serving.
func (a *App) Handle(module, action string, h HandlerFunc) {
	a.handlers[module+"/"+action] = h
}

// Router exposes the underlying chi router.
func (a *App) Router() chi.Router {
	return a.router
}

// Sessions exposes the session manager, mainly for janitor wiring.
func (a *App) Sessions() *SessionManager {
	return a.sessions
}

// RememberMe exposes the remember-me service, mainly for janitor wiring.
func (a *App) RememberMe() *auth.RememberMe {
	return a.rememberMe
}

func (a *App) setupRoutes() {
	a.router.Use(a.httpMiddlewares...)
	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}
	if a.metricsPath != "" {
		obs.Init()
		a.router.Handle(a.metricsPath, obs.Handler())
	}
	a.router.Handle("/*", http.HandlerFunc(a.dispatch))
}

// dispatch is the whole request pipeline.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	ctx := r.Context()
	started := time.Now()

	req := a.parser.Parse(r.URL.Path, r.URL.RawQuery)
	route, err := a.matcher.Resolve(req)
	if err != nil {
		a.fail(rw, err)
		return
	}
	obs.RouteResolved(route.Module)

	sess, user, redirected, err := a.establishIdentity(ctx, rw, r, route)
	if err != nil {
		a.fail(rw, err)
		return
	}
	if redirected {
		return
	}

	if done, err := a.authorize(ctx, rw, r, route, sess, user); err != nil {
		a.fail(rw, err)
		return
	} else if done {
		return
	}

	// Empty module: send the caller somewhere useful.
	if route.Module == "" {
		a.redirectToLanding(ctx, rw, r, user)
		return
	}

	// Page memory: an explicit page-N segment is remembered per
	// module/action for a month; a URL without one resumes at the
	// remembered page.
	if route.Module != "" {
		name := "pg_" + route.Module + "_" + route.Action
		if route.PageSet {
			a.cookies.Set(rw, name, strconv.Itoa(route.Page), pageCookieMaxAge)
		} else if v, err := a.cookies.Get(r, name); err == nil {
			if n, err := strconv.Atoi(v); err == nil && n > 1 {
				route.Page = n
			}
		}
	}

	c := newContext(rw, r, a, route, sess, user)

	h, ok := a.handlers[route.Module+"/"+route.Action]
	if !ok {
		h = a.notFound
		if h == nil {
			h = func(c Context) error {
				return c.Error(http.StatusNotFound, "not found")
			}
		}
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}

	if err := h(c); err != nil {
		a.handleError(c, err)
	}

	if route.SendLog {
		a.logger.InfoContext(ctx, "request",
			slog.String("module", route.Module),
			slog.String("action", route.Action),
			slog.Int("status", rw.Status()),
			slog.Duration("duration", time.Since(started)))
	}
}

// establishIdentity resumes or starts the session and resolves the
// current user, attempting remember-me auto-login when no live session
// carries one. Returns redirected=true when the request was already
// answered with a login redirect.
func (a *App) establishIdentity(ctx context.Context, rw *ResponseWriter, r *http.Request, route *routing.Resolved) (*session.Session, *auth.User, bool, error) {
	sess, err := a.sessions.Resume(ctx, r)
	switch {
	case err == nil && sess != nil:
		if err := a.sessions.Extend(ctx, sess); err != nil {
			return nil, nil, false, err
		}
	case errors.Is(err, session.ErrExpired):
		fields := map[string]any{"session_id": sess.ID}
		if sess.UserID != nil {
			fields["user_id"] = *sess.UserID
		}
		a.audit.Record(ctx, audit.EventSessionExpired, fields)
		obs.SessionExpired()
		if err := a.sessions.Drop(ctx, sess); err != nil {
			return nil, nil, false, err
		}
		sess = nil
	case err == nil || errors.Is(err, session.ErrNotFound):
		sess = nil
	default:
		return nil, nil, false, err
	}

	var user *auth.User
	if sess == nil {
		fresh, err := a.sessions.Start(ctx, rw)
		if err != nil {
			return nil, nil, false, err
		}
		obs.SessionStarted()
		sess = fresh

		u, err := a.rememberMe.AutoLogin(ctx, rw, r, sess)
		switch {
		case err == nil:
			user = u
		case errors.Is(err, auth.ErrTokenInvalid):
			// Stay anonymous.
		default:
			return nil, nil, false, err
		}
	}

	if user == nil && sess.UserID != nil {
		u, err := a.users.FindByID(ctx, *sess.UserID)
		switch {
		case err == nil:
			user = u
		case errors.Is(err, auth.ErrUserNotFound):
			// Orphaned session; drop the binding and continue anonymous.
			sess.UserID = nil
			sess.FormerUserID = nil
			if err := a.sessions.Store().Update(ctx, sess); err != nil {
				return nil, nil, false, err
			}
		default:
			return nil, nil, false, err
		}
	}

	if user == nil && gated(route.Module) {
		a.redirectToLogin(rw, r, route)
		return sess, nil, true, nil
	}
	return sess, user, false, nil
}

// authorize runs the ACL check for authenticated users on gated modules.
// Returns done=true when the request was answered with a denial redirect.
func (a *App) authorize(ctx context.Context, rw *ResponseWriter, r *http.Request, route *routing.Resolved, sess *session.Session, user *auth.User) (bool, error) {
	if user == nil || !gated(route.Module) {
		return false, nil
	}

	resolver := acl.NewResolver(a.rules, a.matcher)
	sub := acl.Subject{GroupID: user.GroupID, Super: user.Super}

	ok, err := resolver.CanAccess(ctx, sub, route.Module, route.Action)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	a.audit.Record(ctx, audit.EventAccessDenied, map[string]any{
		"user_id": user.ID,
		"module":  route.Module,
		"action":  route.Action,
	})
	obs.AccessDenied(route.Module)
	_ = a.cookies.PushNotice(rw, r, cookie.Notice{Severity: cookie.SeverityError, Message: "access denied"})

	landingModule, landingAction, err := resolver.Landing(ctx, sub)
	if err != nil {
		return false, err
	}

	// Denied landing would loop forever; bail out through logout.
	if landingModule == route.Module && landingAction == route.Action {
		http.Redirect(rw, r, "/user/logout", http.StatusFound)
		return true, nil
	}

	http.Redirect(rw, r, routeURL(landingModule, landingAction), http.StatusFound)
	return true, nil
}

func (a *App) redirectToLogin(rw *ResponseWriter, r *http.Request, route *routing.Resolved) {
	// Remember where the caller wanted to go, except for POSTs whose
	// body cannot be replayed.
	if r.Method != http.MethodPost {
		_ = a.cookies.SetSigned(rw, returnToCookie, route.URL(), 0)
	}
	http.Redirect(rw, r, routeURL(loginModule, loginAction), http.StatusFound)
}

func (a *App) redirectToLanding(ctx context.Context, rw *ResponseWriter, r *http.Request, user *auth.User) {
	if user == nil {
		http.Redirect(rw, r, routeURL(loginModule, loginAction), http.StatusFound)
		return
	}
	resolver := acl.NewResolver(a.rules, a.matcher)
	module, action, err := resolver.Landing(ctx, acl.Subject{GroupID: user.GroupID, Super: user.Super})
	if err != nil {
		a.fail(rw, err)
		return
	}
	http.Redirect(rw, r, routeURL(module, action), http.StatusFound)
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.ErrorContext(c.Context(), "handler error after response started",
			slog.String("error", err.Error()))
		return
	}
	if a.errorHandler != nil {
		if err := a.errorHandler(c, err); err == nil {
			return
		}
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		if httpErr.Err != nil {
			a.logger.ErrorContext(c.Context(), httpErr.Message, slog.String("error", httpErr.Err.Error()))
		}
		_ = c.String(httpErr.Code, httpErr.Message)
		return
	}

	a.logger.ErrorContext(c.Context(), "handler failed", slog.String("error", err.Error()))
	_ = c.String(http.StatusInternalServerError, "internal server error")
}

func (a *App) fail(rw *ResponseWriter, err error) {
	a.logger.Error("pipeline failed", slog.String("error", err.Error()))
	if !rw.Written() {
		http.Error(rw, "internal server error", http.StatusInternalServerError)
	}
}

// gated reports whether a module is subject to authentication and ACL.
// The login/profile and asset modules are never gated; neither is the
// empty module, which only ever redirects.
func gated(module string) bool {
	return module != "" && module != "public" && module != "user"
}

func routeURL(module, action string) string {
	if action == "" {
		return "/" + module
	}
	return "/" + module + "/" + action
}

// healthConfig holds probe endpoint settings.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures the probe endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides the liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides the readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
