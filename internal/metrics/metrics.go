// Package metrics holds the Prometheus collectors of the sign-up service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codigocerto"

// Submission outcomes
const (
	OutcomeCreated        = "created"
	OutcomeInvalid        = "invalid"
	OutcomeDuplicateEmail = "duplicate_email"
	OutcomeDuplicatePhone = "duplicate_phone"
	OutcomeError          = "error"
)

// Failure stages of a submission that ended in a server error
const (
	StageStore  = "store"
	StageRender = "render"
	StageMail   = "mail"
	StageNotify = "notify"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	SubmissionsTotal        *prometheus.CounterVec
	SubmissionFailuresTotal *prometheus.CounterVec
	NewsletterOptOutsTotal  prometheus.Counter
}

// New creates the collectors without registering them
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signup",
			Name:      "submissions_total",
			Help:      "Sign-up submissions by applicant kind and outcome",
		}, []string{"kind", "outcome"}),
		SubmissionFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signup",
			Name:      "failures_total",
			Help:      "Sign-up submissions that failed with a server error, by failing stage",
		}, []string{"stage"}),
		NewsletterOptOutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "newsletter",
			Name:      "opt_outs_total",
			Help:      "Newsletter unsubscriptions",
		}),
	}
}

// Register registers the collectors on reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.SubmissionsTotal,
		m.SubmissionFailuresTotal,
		m.NewsletterOptOutsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with the service collectors plus the Go and process collectors
func NewRegistry(m *Metrics) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Handler serves the metrics gathered by reg
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (m *Metrics) Submission(kind, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Failure(stage string) {
	if m == nil {
		return
	}
	m.SubmissionFailuresTotal.WithLabelValues(stage).Inc()
}

func (m *Metrics) NewsletterOptOut() {
	if m == nil {
		return
	}
	m.NewsletterOptOutsTotal.Inc()
}
