// Package metrics defines all custom Prometheus metrics for the sweet shop
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// ── Inventory metrics ─────────────────────────────────────────────────────────

// SweetsCreatedTotal counts sweets added to the catalog.
var SweetsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweets_created_total",
		Help:      "Total number of sweets created.",
	},
)

// SweetsDeletedTotal counts sweets removed from the catalog.
var SweetsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweets_deleted_total",
		Help:      "Total number of sweets deleted.",
	},
)

// PurchasesTotal counts purchase attempts.
// Label:
//   - result: "success", "out_of_stock", or "not_found"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of purchase attempts, by result.",
	},
	[]string{"result"},
)

// RestocksTotal counts successful restock operations.
var RestocksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocks_total",
		Help:      "Total number of successful restocks.",
	},
)

// CategoryCacheTotal counts category cache lookups.
// Label:
//   - result: "hit" (served from cache) or "miss" (recomputed from the store)
var CategoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_cache_total",
		Help:      "Total number of category cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully registered users.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered users.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
