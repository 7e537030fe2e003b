package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var HistogramBuckets = []float64{
	// fast: 0 - 500ms
	5, 10, 25, 50, 75, 100, 150, 200, 300, 400, 500,
	// medium: 500ms - 2s
	750, 1000, 1500, 2000,
	// slow: provider calls and batch sweeps
	3000, 5000, 10000, 30000, 60000,
}

// Metric is a definition for the name, description, type, ID, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case "counter_vec":
		return prometheus.NewCounterVec(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case "counter":
		return prometheus.NewCounter(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description})
	case "gauge_vec":
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case "histogram_vec":
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets}, m.Args)
	case "summary_vec":
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	}
	return nil
}

var MetricsReconcileOutcome = &Metric{
	ID:          "reconcileOutcome",
	Name:        "reconcile_total",
	Description: "Webhook reconciliation attempts partitioned by trigger and outcome.",
	Type:        "counter_vec",
	Args:        []string{"trigger", "outcome"},
}

var MetricsReconcileDuration = &Metric{
	ID:          "reconcileDur",
	Name:        "reconcile_dur_ms",
	Description: "Webhook reconciliation latency in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"trigger"},
}

// Reconcile holds the collectors the webhook reconciler reports to.
// A nil *Reconcile is valid and records nothing.
type Reconcile struct {
	outcome  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewReconcile builds and registers the reconciliation collectors on reg.
// Already-registered collectors are reused so repeated construction is safe.
func NewReconcile(reg prometheus.Registerer) *Reconcile {
	r := &Reconcile{
		outcome:  NewMetric(MetricsReconcileOutcome, "webhook").(*prometheus.CounterVec),
		duration: NewMetric(MetricsReconcileDuration, "webhook").(*prometheus.HistogramVec),
	}
	if reg != nil {
		r.outcome = register(reg, r.outcome)
		r.duration = register(reg, r.duration)
	}
	return r
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (r *Reconcile) Observe(trigger, outcome string, elapsedMs float64) {
	if r == nil {
		return
	}
	r.outcome.WithLabelValues(trigger, outcome).Inc()
	r.duration.WithLabelValues(trigger).Observe(elapsedMs)
}

const (
	RefererKey = "X-Referer"
)
