// Package metrics defines and registers all custom Prometheus metrics for the
// clinic client. It is the single source of truth for metric names, labels,
// and help strings; metrics register themselves with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinica"

// RequestsTotal counts outbound API calls.
// Labels:
//   - method: HTTP method of the call
//   - status: numeric HTTP status, or "error" when the call never completed
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outbound API requests, by method and status.",
	},
	[]string{"method", "status"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ForcedLogoutsTotal counts sessions torn down because the backend rejected
// the bearer token. Deduplicated: concurrent rejections of the same session
// count once.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions invalidated by the backend.",
	},
)

// RequestDuration measures end-to-end latency of outbound API calls.
// Label:
//   - method: HTTP method of the call
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of outbound API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
