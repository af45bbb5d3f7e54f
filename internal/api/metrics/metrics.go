// Package metrics defines and registers the custom Prometheus metrics of the
// storefront API. It is the single source of truth for metric names, labels
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "invalid_input" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts privileged calls rejected by the access guard.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of privileged operations rejected by role checks.",
	},
	[]string{"reason"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartOperationsTotal counts cart mutations.
// Label:
//   - op: "add", "remove", "set_quantity" or "clear"
var CartOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"op"},
)

// CheckoutsTotal counts checkout outcomes.
// Label:
//   - result: "success", "rejected", "conflict" or "cancelled"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkouts, by result.",
	},
	[]string{"result"},
)

// CheckoutDuration measures a checkout from validation to the recorded order.
var CheckoutDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of successful checkouts, including the simulated payment.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersRecordedTotal counts orders appended to the ledger.
// Label:
//   - source: "checkout" or "admin"
var OrdersRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_recorded_total",
		Help:      "Total number of orders appended to the ledger, by source.",
	},
	[]string{"source"},
)

// OrderEventsQueueDepth tracks the number of order events waiting in each
// dispatcher worker channel.
var OrderEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_events_queue_depth",
		Help:      "Current number of order events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// UserStoreBreakerState reports the credential store breaker state
// (0 closed, 1 half-open, 2 open).
var UserStoreBreakerState = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "user_store_breaker_state",
		Help:      "State of the circuit breaker guarding the credential store.",
	},
)

// OrderEventsDroppedTotal counts order events published after the dispatcher
// stopped.
var OrderEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_dropped_total",
		Help:      "Total number of order events dropped because the dispatcher had stopped.",
	},
)
