package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordGenerationCountsByLabels(t *testing.T) {
	before := testutil.ToFloat64(generationOutcomes.WithLabelValues("diet", "fallback", "malformed"))
	RecordGeneration("diet", "fallback", "malformed")
	RecordGeneration("diet", "fallback", "malformed")
	require.Equal(t, before+2, testutil.ToFloat64(generationOutcomes.WithLabelValues("diet", "fallback", "malformed")))
}

func TestRecordPlanPersistedIgnoresZeroTime(t *testing.T) {
	ts := time.Unix(1_700_000_000, 0)
	RecordPlanPersisted(ts)
	RecordPlanPersisted(time.Time{})
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(planPersistGauge))
}

func TestConsumedEventWatermarkMovesOnlyWhenProcessed(t *testing.T) {
	processed := time.Unix(1_700_000_500, 0)
	RecordConsumedEvent("feedback.submitted", ConsumedProcessed, processed)
	RecordConsumedEvent("feedback.submitted", ConsumedHandlerError, processed.Add(time.Hour))
	RecordConsumedEvent("feedback.submitted", ConsumedProcessed, time.Time{})

	require.Equal(t, float64(processed.Unix()), testutil.ToFloat64(eventWatermark.WithLabelValues("feedback.submitted")))
	require.GreaterOrEqual(t, testutil.ToFloat64(consumedEvents.WithLabelValues("feedback.submitted", ConsumedProcessed)), 2.0)
}

func TestDeadLetterCountsByEventTypeAndAction(t *testing.T) {
	before := testutil.ToFloat64(deadLetters.WithLabelValues("plan.generated", DeadLetterRetry))
	RecordDeadLetter("plan.generated", DeadLetterRetry)
	require.Equal(t, before+1, testutil.ToFloat64(deadLetters.WithLabelValues("plan.generated", DeadLetterRetry)))

	SetDeadLetterBacklog(3)
	require.Equal(t, 3.0, testutil.ToFloat64(deadLetterBacklog))
}
