// Package metrics defines all custom Prometheus metrics for the identity
// service. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register/login attempts by outcome.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "conflict", "unauthorized", "not_found",
//     "upstream_error", or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// TokenValidationsTotal counts token validation checks.
// Label:
//   - result: "valid" or "invalid"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validation checks, by result.",
	},
	[]string{"result"},
)

// ── Credential store metrics ──────────────────────────────────────────────────

// StoreRequestDuration measures the latency of outbound calls to the profile
// service, the only blocking I/O in the request path.
// Labels:
//   - operation: "fetch" or "create"
//   - outcome: "ok", "not_found", "client_error", "server_error", "transport_error"
var StoreRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_request_duration_seconds",
		Help:      "Duration of credential store requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"operation", "outcome"},
)
