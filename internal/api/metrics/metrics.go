// Package metrics defines and registers all custom Prometheus metrics for the
// counter API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the /metrics endpoint is wired by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "counter"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// SalesTotal counts successfully recorded sales.
// Label:
//   - counter_id: the point of sale the transaction was rung from
var SalesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_total",
		Help:      "Total number of sales recorded, by counter.",
	},
	[]string{"counter_id"},
)

// RefillsTotal counts successfully recorded refills.
// Label:
//   - payment_method: "cheque", "cash", "card" or "other"
var RefillsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refills_total",
		Help:      "Total number of refills recorded, by payment method.",
	},
	[]string{"payment_method"},
)

// TransactionAmount measures the absolute amount moved by each transaction.
// Label:
//   - kind: "sale" or "refill"
var TransactionAmount = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transaction_amount",
		Help:      "Absolute amount moved per transaction, in account currency units.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 50, 100},
	},
	[]string{"kind"},
)

// IdempotentReplaysTotal counts requests answered from an earlier transaction
// because their Idempotency-Key had already been applied.
// Label:
//   - kind: "sale" or "refill"
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of requests replayed from a previously applied transaction.",
	},
	[]string{"kind"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionLoginsTotal counts operator logins at counters.
var SessionLoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of operator logins at counters.",
	},
)

// SessionEvictionsTotal counts operators removed from counter sessions by
// idle timeout. Explicit logouts are not counted here.
var SessionEvictionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_evictions_total",
		Help:      "Total number of operators evicted from counter sessions by idle timeout.",
	},
)

// ── Attendance metrics ────────────────────────────────────────────────────────

// AttendanceDroppedTotal counts permanency records discarded because the
// dispatcher queue was full.
var AttendanceDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_dropped_total",
		Help:      "Total number of attendance records dropped due to a full dispatcher queue.",
	},
)
