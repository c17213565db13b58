// Package metrics holds the Prometheus collectors for dispatches, login
// attempts and UI requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobgate_dispatch_total",
			Help: "URLs handed to a browser, by path and result",
		},
		[]string{"path", "result"},
	)

	loginOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobgate_login_outcomes_total",
			Help: "Finished login attempts by outcome",
		},
		[]string{"outcome"},
	)

	loginDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobgate_login_duration_seconds",
			Help:    "Wall time of a login attempt including fixed waits",
			Buckets: []float64{1, 5, 10, 15, 20, 30, 60},
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobgate_http_requests_total",
			Help: "Total number of UI requests",
		},
		[]string{"path", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(dispatchTotal, loginOutcomes, loginDuration, httpRequestsTotal)
}

// Dispatch paths
const (
	PathExisting  = "existing"
	PathAutoLogin = "autologin"
	PathProfile   = "profile_check"
)

// Dispatch results
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid_url"
	ResultNoExec  = "no_executable"
	ResultError   = "error"
)

// ObserveDispatch counts one dispatch
func ObserveDispatch(path, result string) {
	dispatchTotal.WithLabelValues(path, result).Inc()
}

// ObserveLogin records a finished login attempt
func ObserveLogin(outcome string, d time.Duration) {
	loginOutcomes.WithLabelValues(outcome).Inc()
	loginDuration.Observe(d.Seconds())
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware counts UI requests by route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
