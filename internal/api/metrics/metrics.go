// Package metrics defines the custom Prometheus metrics of the Natours API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and served on /metrics next to the HTTP metrics recorded by
// echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "natours"

// ── Access control ────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests turned away by the auth pipeline.
// Labels:
//   - stage: "protect" or "restrict"
//   - reason: short cause (e.g. "no_token", "invalid_token", "user_gone",
//     "password_changed", "forbidden")
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"stage", "reason"},
)

// SessionsIssuedTotal counts issued session tokens.
// Label:
//   - via: "signup", "login", "reset_password" or "update_password"
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of session tokens issued, by flow.",
	},
	[]string{"via"},
)

// RateLimitedTotal counts requests refused by the /api rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Documents ─────────────────────────────────────────────────────────────────

// DocumentsWrittenTotal counts successful writes through the CRUD handlers.
// Labels:
//   - resource: "tour", "user" or "review"
//   - op: "create", "update" or "delete"
var DocumentsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_written_total",
		Help:      "Total number of documents created, updated or deleted, by resource.",
	},
	[]string{"resource", "op"},
)
