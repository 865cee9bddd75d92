// Package metrics defines and registers all custom Prometheus metrics for
// the employee API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry at package init;
// the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "employee_api"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure", or "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// EmployeeWritesTotal counts mutating employee operations that succeeded.
// Label:
//   - operation: "create", "update", or "delete"
var EmployeeWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_writes_total",
		Help:      "Total number of successful employee mutations, by operation.",
	},
	[]string{"operation"},
)

// PhotoCleanupTotal counts best-effort photo file removals.
// Label:
//   - result: "ok" or "error" (removal failures are logged, never surfaced)
var PhotoCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_cleanup_total",
		Help:      "Total number of profile photo cleanup attempts, by result.",
	},
	[]string{"result"},
)

// PhotoUploadsTotal counts stored profile photos.
var PhotoUploadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_uploads_total",
		Help:      "Total number of profile photos stored.",
	},
)
