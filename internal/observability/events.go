package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outbox delivery results.
const (
	OutboxDelivered = "delivered"
	OutboxFailed    = "failed"
)

// Dead-letter actions.
const (
	DeadLetterWritten     = "written"
	DeadLetterRequeued    = "requeued"
	DeadLetterRetry       = "retry_scheduled"
	DeadLetterQuarantined = "quarantined"
)

// Consumer results.
const (
	ConsumedProcessed    = "processed"
	ConsumedHandlerError = "handler_error"
	ConsumedMalformed    = "malformed"
	ConsumedUnknownType  = "unknown_type"
	ConsumedMisrouted    = "misrouted"
)

var (
	outboxEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellplan",
		Subsystem: "outbox",
		Name:      "events_total",
		Help:      "Plan lifecycle events leaving the outbox by event type and result.",
	}, []string{"event_type", "result"})
	outboxBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wellplan",
		Subsystem: "outbox",
		Name:      "batch_duration_seconds",
		Help:      "Time spent claiming, delivering and marking one outbox batch.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
	deadLetters = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellplan",
		Subsystem: "dlq",
		Name:      "entries_total",
		Help:      "Dead-letter entries by event type and action taken.",
	}, []string{"event_type", "action"})
	deadLetterBacklog = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wellplan",
		Subsystem: "dlq",
		Name:      "backlog_entries",
		Help:      "Dead-letter entries still waiting for replay.",
	})
	consumedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellplan",
		Subsystem: "consumer",
		Name:      "events_total",
		Help:      "Consumed plan lifecycle records by event type and result.",
	}, []string{"event_type", "result"})
	eventWatermark = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wellplan",
		Subsystem: "consumer",
		Name:      "last_event_timestamp_seconds",
		Help:      "Unix timestamp of the newest consumed event per event type.",
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(outboxEvents, outboxBatchDuration, deadLetters, deadLetterBacklog, consumedEvents, eventWatermark)
}

// RecordOutboxEvent counts one outbox event by delivery result.
func RecordOutboxEvent(eventType, result string) {
	outboxEvents.WithLabelValues(eventType, result).Inc()
}

// ObserveOutboxBatch records the duration of one non-empty outbox batch.
func ObserveOutboxBatch(d time.Duration) {
	outboxBatchDuration.Observe(d.Seconds())
}

// RecordDeadLetter counts one dead-letter action for an event type.
func RecordDeadLetter(eventType, action string) {
	deadLetters.WithLabelValues(eventType, action).Inc()
}

// SetDeadLetterBacklog reports how many dead-letter entries await replay.
func SetDeadLetterBacklog(n int) {
	deadLetterBacklog.Set(float64(n))
}

// RecordConsumedEvent counts one consumed record. Processed events also move
// the per-type watermark to ts when ts is set.
func RecordConsumedEvent(eventType, result string, ts time.Time) {
	consumedEvents.WithLabelValues(eventType, result).Inc()
	if result == ConsumedProcessed && !ts.IsZero() {
		eventWatermark.WithLabelValues(eventType).Set(float64(ts.Unix()))
	}
}
