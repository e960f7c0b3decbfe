package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the applicant module.
type Metrics struct {
	ApplicationsCreated prometheus.Counter
	DecisionsRecorded   *prometheus.CounterVec
	DecisionEmailFailed prometheus.Counter
}

// New creates a Metrics instance with all applicant module metrics registered.
func New() *Metrics {
	return &Metrics{
		ApplicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paynroll_applications_created_total",
			Help: "Total number of applications submitted",
		}),
		DecisionsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "paynroll_decisions_recorded_total",
			Help: "Total number of decision transitions recorded, by status",
		}, []string{"status"}),
		DecisionEmailFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paynroll_decision_emails_failed_total",
			Help: "Decision transitions whose notification email could not be sent",
		}),
	}
}

// IncrementApplicationsCreated records a successful application submission.
func (m *Metrics) IncrementApplicationsCreated() {
	m.ApplicationsCreated.Inc()
}

// IncrementDecisionsRecorded records a committed status transition.
func (m *Metrics) IncrementDecisionsRecorded(status string) {
	m.DecisionsRecorded.WithLabelValues(status).Inc()
}

// IncrementDecisionEmailFailed records a swallowed email delivery failure.
func (m *Metrics) IncrementDecisionEmailFailed() {
	m.DecisionEmailFailed.Inc()
}
