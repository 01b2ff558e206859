package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellplan",
		Subsystem: "generator",
		Name:      "outcomes_total",
		Help:      "Plan generation outcomes by plan kind, source and fallback reason.",
	}, []string{"kind", "source", "reason"})
	generationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wellplan",
		Subsystem: "generator",
		Name:      "completion_duration_seconds",
		Help:      "Latency of calls to the generative completion service.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
	}, []string{"kind"})
	refinementOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellplan",
		Subsystem: "targets",
		Name:      "refinements_total",
		Help:      "Target refinement attempts by result.",
	}, []string{"result"})
	planPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wellplan",
		Subsystem: "persistence",
		Name:      "last_plan_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent plan stored as active.",
	})
	planSaveFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellplan",
		Subsystem: "persistence",
		Name:      "plan_save_failures_total",
		Help:      "Generated plans returned to the caller without being stored.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(generationOutcomes, generationDuration, refinementOutcomes, planPersistGauge, planSaveFailures)
}

// RecordGeneration counts one generation outcome. reason is empty for AI plans.
func RecordGeneration(kind, source, reason string) {
	generationOutcomes.WithLabelValues(kind, source, reason).Inc()
}

// ObserveCompletion records the latency of one completion call.
func ObserveCompletion(kind string, d time.Duration) {
	generationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordRefinement counts one target refinement result (applied, skipped, rejected).
func RecordRefinement(result string) {
	refinementOutcomes.WithLabelValues(result).Inc()
}

// RecordPlanPersisted updates the persistence watermark gauge.
func RecordPlanPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	planPersistGauge.Set(float64(ts.Unix()))
}

// RecordPlanSaveFailure counts a plan that could not be stored.
func RecordPlanSaveFailure(kind string) {
	planSaveFailures.WithLabelValues(kind).Inc()
}
