// Package events defines the plan lifecycle event payloads and their routing.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownEventType is returned for an event type missing from the Catalog.
var ErrUnknownEventType = errors.New("unknown event type")

// Event is implemented by every payload in the Catalog.
type Event interface {
	// Owner returns the user the event belongs to.
	Owner() string
}

// Event types written to the outbox.
const (
	PlanGeneratedType     = "plan.generated"
	PlanDeactivatedType   = "plan.deactivated"
	FeedbackSubmittedType = "feedback.submitted"
)

// PlanGenerated is emitted when a plan becomes the user's active plan.
type PlanGenerated struct {
	PlanID         string    `json:"plan_id"`
	UserID         string    `json:"user_id"`
	Kind           string    `json:"kind"`
	Source         string    `json:"source"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	PriorPlanID    string    `json:"prior_plan_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PlanDeactivated is emitted when a plan stops being active, either superseded or by the user.
type PlanDeactivated struct {
	PlanID     string    `json:"plan_id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FeedbackSubmitted is emitted for every stored feedback record.
type FeedbackSubmitted struct {
	FeedbackID string    `json:"feedback_id"`
	PlanID     string    `json:"plan_id"`
	UserID     string    `json:"user_id"`
	DayKey     string    `json:"day_key,omitempty"`
	SegmentKey string    `json:"segment_key,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Owner implements Event.
func (e PlanGenerated) Owner() string { return e.UserID }

// Owner implements Event.
func (e PlanDeactivated) Owner() string { return e.UserID }

// Owner implements Event.
func (e FeedbackSubmitted) Owner() string { return e.UserID }

// Deactivation reasons.
const (
	ReasonSuperseded = "superseded"
	ReasonUser       = "user"
)

// Metadata describes how an event type is routed.
type Metadata struct {
	Topic         string
	SchemaSubject string
}

// Catalog routes every event type. All events are keyed by user id so a
// user's events stay ordered within one partition.
var Catalog = map[string]Metadata{
	PlanGeneratedType: {
		Topic:         "plan_events",
		SchemaSubject: "plan_events-generated-value",
	},
	PlanDeactivatedType: {
		Topic:         "plan_events",
		SchemaSubject: "plan_events-deactivated-value",
	},
	FeedbackSubmittedType: {
		Topic:         "plan_feedback",
		SchemaSubject: "plan_feedback-value",
	},
}

// Topics returns the distinct topics in the catalog, sorted.
func Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, meta := range Catalog {
		if !seen[meta.Topic] {
			seen[meta.Topic] = true
			topics = append(topics, meta.Topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// Decode parses payload into the struct registered for eventType.
func Decode(eventType string, payload []byte) (Event, error) {
	switch eventType {
	case PlanGeneratedType:
		return decode[PlanGenerated](payload)
	case PlanDeactivatedType:
		return decode[PlanDeactivated](payload)
	case FeedbackSubmittedType:
		return decode[FeedbackSubmitted](payload)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
}

func decode[T Event](payload []byte) (Event, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return event, nil
}
