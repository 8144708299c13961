package apiop

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/apiop/validate"
)

// Metrics counts validation outcomes.
type Metrics struct {
	validated *prometheus.CounterVec
	findings  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiop",
			Name:      "requests_validated_total",
			Help:      "Requests checked against a declared operation, by result.",
		}, []string{"result"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiop",
			Name:      "validation_findings_total",
			Help:      "Validation findings, by request location.",
		}, []string{"location"}),
	}
	reg.MustRegister(m.validated, m.findings)
	return m
}

func (m *Metrics) accepted() {
	if m == nil {
		return
	}
	m.validated.WithLabelValues("accepted").Inc()
}

func (m *Metrics) rejected(findings []validate.Finding) {
	if m == nil {
		return
	}
	m.validated.WithLabelValues("rejected").Inc()
	for _, f := range findings {
		m.findings.WithLabelValues(f.Location).Inc()
	}
}
