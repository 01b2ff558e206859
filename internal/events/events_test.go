package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeReturnsTypedPayload(t *testing.T) {
	event, err := Decode(PlanDeactivatedType, []byte(`{"plan_id":"p1","user_id":"user-4","kind":"diet","reason":"superseded"}`))
	require.NoError(t, err)

	deactivated, ok := event.(PlanDeactivated)
	require.True(t, ok)
	require.Equal(t, ReasonSuperseded, deactivated.Reason)
	require.Equal(t, "user-4", event.Owner())
}

func TestDecodeRejectsUnknownTypesAndBadJSON(t *testing.T) {
	_, err := Decode("plan.archived", []byte(`{}`))
	require.ErrorIs(t, err, ErrUnknownEventType)

	_, err = Decode(FeedbackSubmittedType, []byte(`{"user_id":`))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnknownEventType)
}

func TestTopicsAreDistinctAndSorted(t *testing.T) {
	require.Equal(t, []string{"plan_events", "plan_feedback"}, Topics())
}
