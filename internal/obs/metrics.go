package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_sessions_started_total",
		Help: "Sessions created.",
	})

	sessionsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_sessions_expired_total",
		Help: "Sessions dropped after idle expiry.",
	})

	routeResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_route_resolutions_total",
			Help: "Resolved requests by module.",
		},
		[]string{"module"},
	)

	accessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_access_denied_total",
			Help: "ACL denials by module.",
		},
		[]string{"module"},
	)
)

var registerOnce sync.Once

// Init registers the metrics with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(loginsTotal, sessionsStarted, sessionsExpired, routeResolutions, accessDenied)
	})
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Login outcomes.
const (
	LoginOK     = "success"
	LoginFailed = "failure"
)

func ObserveLogin(outcome string) { loginsTotal.WithLabelValues(outcome).Inc() }
func SessionStarted()             { sessionsStarted.Inc() }
func SessionExpired()             { sessionsExpired.Inc() }
func RouteResolved(module string) { routeResolutions.WithLabelValues(module).Inc() }
func AccessDenied(module string)  { accessDenied.WithLabelValues(module).Inc() }
