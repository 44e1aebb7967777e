// Package metrics records per-run counters and writes them in the Prometheus
// text format for node_exporter's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Plan outcomes.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Recorder owns a private registry so runs do not share global state.
type Recorder struct {
	reg        *prometheus.Registry
	plans      *prometheus.CounterVec
	idents     *prometheus.GaugeVec
	sequences  *prometheus.GaugeVec
	mismatches prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agpsplice_plans_total",
			Help: "Plans processed, by outcome.",
		}, []string{"status"}),
		idents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agpsplice_identifiers",
			Help: "Distinct unitig identifiers in the combined table.",
		}, []string{"part"}),
		sequences: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agpsplice_sequences",
			Help: "Sequences written to the part archive.",
		}, []string{"part"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agpsplice_reconciliation_mismatches_total",
			Help: "Parts whose sequence count differs from the identifier count.",
		}),
	}
	r.reg.MustRegister(r.plans, r.idents, r.sequences, r.mismatches)
	for _, s := range []string{StatusDone, StatusSkipped, StatusFailed} {
		r.plans.WithLabelValues(s)
	}
	return r
}

func (r *Recorder) Plan(status string) { r.plans.WithLabelValues(status).Inc() }

// Part records the counts of a finished part.
func (r *Recorder) Part(part string, identifiers, sequences int) {
	r.idents.WithLabelValues(part).Set(float64(identifiers))
	r.sequences.WithLabelValues(part).Set(float64(sequences))
	if identifiers != sequences {
		r.mismatches.Inc()
	}
}

func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteFile writes all metrics to fn atomically.
func (r *Recorder) WriteFile(fn string) error {
	return prometheus.WriteToTextfile(fn, r.reg)
}
