package internal

import (
	"log/slog"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/acl"
	"github.com/gatehouse/gatehouse/internal/audit"
	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/cookie"
	"github.com/gatehouse/gatehouse/pkg/routing"
	"github.com/gatehouse/gatehouse/pkg/session"
)

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieManager sets the cookie manager. Signed and encrypted
// cookies (remember-me, notices, return-to) need a manager with a
// secret.
func WithCookieManager(m *cookie.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.cookies = m
		}
	}
}

// WithSessionManager sets a preconfigured session manager.
func WithSessionManager(sm *SessionManager) Option {
	return func(a *App) {
		if sm != nil {
			a.sessions = sm
		}
	}
}

// WithSessionStore builds a session manager over the given store.
func WithSessionStore(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		if store != nil {
			a.sessions = NewSessionManager(store, opts...)
		}
	}
}

// WithUserStore sets the identity source.
func WithUserStore(store auth.UserStore) Option {
	return func(a *App) {
		if store != nil {
			a.users = store
		}
	}
}

// WithTokenStore sets the remember-me token store.
func WithTokenStore(store auth.TokenStore) Option {
	return func(a *App) {
		if store != nil {
			a.tokens = store
		}
	}
}

// WithRuleStore sets the ACL source.
func WithRuleStore(store acl.RuleStore) Option {
	return func(a *App) {
		if store != nil {
			a.rules = store
		}
	}
}

// WithAuditRecorder sets the audit sink. Defaults to the structured log.
func WithAuditRecorder(rec audit.Recorder) Option {
	return func(a *App) {
		if rec != nil {
			a.audit = rec
		}
	}
}

// WithAuthConfig tunes the login flow.
func WithAuthConfig(cfg auth.Config) Option {
	return func(a *App) {
		a.authCfg = cfg
	}
}

// WithRoutes sets the application-global route table. These routes are
// tried before any module table.
func WithRoutes(t routing.Table) Option {
	return func(a *App) {
		a.appRoutes = t
	}
}

// WithModuleRoutes sets the per-module route source.
func WithModuleRoutes(mr routing.ModuleRoutes) Option {
	return func(a *App) {
		a.moduleRoutes = mr
	}
}

// WithBasePath strips a prefix from every request path before routing.
func WithBasePath(p string) Option {
	return func(a *App) {
		a.basePath = p
	}
}

// WithHandler registers a handler for a module/action pair.
func WithHandler(module, action string, h HandlerFunc) Option {
	return func(a *App) {
		a.handlers[module+"/"+action] = h
	}
}

// WithHTTPMiddleware appends router-level middleware, applied to every
// request before the pipeline runs, probe and metrics endpoints
// included.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithMiddleware appends pipeline middleware, outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithErrorHandler overrides error rendering. Returning a non-nil error
// falls back to the default renderer.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler overrides the response for unregistered
// module/action pairs.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFound = h
	}
}

// WithHealth enables the liveness/readiness endpoints.
func WithHealth(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithMetrics exposes the Prometheus endpoint at path.
func WithMetrics(path string) Option {
	return func(a *App) {
		if path != "" {
			a.metricsPath = path
		}
	}
}
