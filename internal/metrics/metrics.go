// Package metrics exposes Prometheus collectors for the session controller
// and the event log reader.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OpStart   = "start"
	OpStop    = "stop"
	OpRestart = "restart"
)

// Result labels.
const (
	ResultOK         = "ok"
	ResultRejected   = "rejected"
	ResultTransport  = "transport"
	ResultSuperseded = "superseded"
)

var (
	// SessionCalls counts control-plane calls by operation and outcome.
	SessionCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hawkeye_session_calls_total",
		Help: "Control-plane calls issued by the session controller",
	}, []string{"operation", "result"})

	// SessionCallDuration tracks control-plane round-trip latency.
	SessionCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hawkeye_session_call_duration_seconds",
		Help:    "Control-plane round-trip latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	// SessionActive mirrors the controller's active latch.
	SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hawkeye_session_active",
		Help: "1 while the controller believes a detection session is running",
	})

	// EventLogFetches counts event log reads by outcome.
	EventLogFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hawkeye_eventlog_fetch_total",
		Help: "Event log fetches by result",
	}, []string{"result"})

	// FeedReconnects counts live feed reconnect attempts.
	FeedReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hawkeye_feed_reconnects_total",
		Help: "Live event feed dial attempts after the first",
	})
)

// ObserveSessionCall records one control-plane call.
func ObserveSessionCall(op, result string, d time.Duration) {
	SessionCalls.WithLabelValues(op, result).Inc()
	if result != ResultSuperseded {
		SessionCallDuration.WithLabelValues(op).Observe(d.Seconds())
	}
}

// SetSessionActive updates the active gauge.
func SetSessionActive(active bool) {
	if active {
		SessionActive.Set(1)
		return
	}
	SessionActive.Set(0)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
