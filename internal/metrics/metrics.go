package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Assignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_assignments_total",
			Help: "Total number of assignment attempts by result",
		},
		[]string{"result"},
	)

	SupersededNotifications = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "claims_notifications_superseded_total",
			Help: "Pending notifications auto-declined by a reassignment or rejection",
		},
	)

	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_decisions_total",
			Help: "Total number of adjuster decisions by outcome and result",
		},
		[]string{"outcome", "result"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_status_transitions_total",
			Help: "Committed claim status transitions",
		},
		[]string{"from", "to"},
	)

	MailDispatch = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_mail_dispatch_total",
			Help: "Claimant mail dispatch attempts by result",
		},
		[]string{"result"},
	)

	LockWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claims_lock_wait_seconds",
			Help:    "Time spent waiting for a per-claim lock",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"driver"},
	)
)

// Result возвращает метку результата для err
func Result(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
