package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	ObserveLogin(LoginOK)
	ObserveLogin(LoginFailed)
	ObserveLogin(LoginFailed)
	SessionStarted()
	RouteResolved("blog")
	AccessDenied("shop")

	assert.EqualValues(t, 1, testutil.ToFloat64(loginsTotal.WithLabelValues(LoginOK)))
	assert.EqualValues(t, 2, testutil.ToFloat64(loginsTotal.WithLabelValues(LoginFailed)))
	assert.EqualValues(t, 1, testutil.ToFloat64(sessionsStarted))
	assert.EqualValues(t, 1, testutil.ToFloat64(routeResolutions.WithLabelValues("blog")))
	assert.EqualValues(t, 1, testutil.ToFloat64(accessDenied.WithLabelValues("shop")))
}
