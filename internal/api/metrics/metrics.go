// Package metrics defines and registers the custom Prometheus metrics of the
// workspace API. It is the single source of truth for metric names, labels
// and help strings. Metrics are registered with the default registry on
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workspace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication decisions.
// Labels:
//   - strategy: "mock", "symmetric-jwt" or "asymmetric-jwt"
//   - outcome: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of bearer token authentication attempts.",
	},
	[]string{"strategy", "outcome"},
)

// AuthFailuresTotal counts rejected requests by failure kind.
// Label:
//   - reason: e.g. "missing_credentials", "token_expired", "issuer_mismatch"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures, by reason.",
	},
	[]string{"reason"},
)

// AdminGuardDecisionsTotal counts admin guard outcomes.
// Label:
//   - decision: "granted" or "denied"
var AdminGuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_guard_decisions_total",
		Help:      "Total number of admin guard decisions.",
	},
	[]string{"decision"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because the
// dispatcher buffer was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped because the queue was full.",
	},
)

// AuditEventsWrittenTotal counts audit persistence results.
// Label:
//   - result: "ok" or "error"
var AuditEventsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_written_total",
		Help:      "Total number of audit events handed to the repository, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Catalogue metrics ─────────────────────────────────────────────────────────

// FavoriteTogglesTotal counts favourite toggles.
// Label:
//   - action: "added" or "removed"
var FavoriteTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorite_toggles_total",
		Help:      "Total number of favourite toggles, by resulting action.",
	},
	[]string{"action"},
)
