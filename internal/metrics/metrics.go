package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cedrus_audit_transitions_total",
		Help: "Total number of successfully applied audit status transitions",
	}, []string{"to_status"})
	transitionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cedrus_audit_transitions_rejected_total",
		Help: "Total number of rejected transition attempts by rejection class",
	}, []string{"reason"})
	guardFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cedrus_audit_guard_failures_total",
		Help: "Total number of transition attempts rejected by a business-rule guard",
	}, []string{"edge"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(transitionsTotal, transitionsRejected, guardFailures)
}

// IncTransition increments the applied transitions counter.
func IncTransition(toStatus string) { transitionsTotal.WithLabelValues(toStatus).Inc() }

// IncRejected increments the rejected attempts counter. reason is one of
// invalid_transition, permission_denied, guard_failed.
func IncRejected(reason string) { transitionsRejected.WithLabelValues(reason).Inc() }

// IncGuardFailure increments the per-edge guard failure counter.
func IncGuardFailure(from, to string) { guardFailures.WithLabelValues(from + "->" + to).Inc() }
