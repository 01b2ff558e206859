package outbox

import "example.com/wellplan/internal/events"

const planGeneratedSchema = `{
  "type": "object",
  "title": "PlanGenerated",
  "properties": {
    "plan_id": {"type": "string"},
    "user_id": {"type": "string"},
    "kind": {"type": "string", "enum": ["diet", "workout"]},
    "source": {"type": "string", "enum": ["ai", "fallback"]},
    "fallback_reason": {"type": "string"},
    "prior_plan_id": {"type": "string"},
    "created_at": {"type": "string", "format": "date-time"}
  },
  "required": ["plan_id", "user_id", "kind", "source", "created_at"],
  "additionalProperties": false
}`

const planDeactivatedSchema = `{
  "type": "object",
  "title": "PlanDeactivated",
  "properties": {
    "plan_id": {"type": "string"},
    "user_id": {"type": "string"},
    "kind": {"type": "string", "enum": ["diet", "workout"]},
    "reason": {"type": "string", "enum": ["superseded", "user"]},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["plan_id", "user_id", "kind", "reason", "occurred_at"],
  "additionalProperties": false
}`

const feedbackSubmittedSchema = `{
  "type": "object",
  "title": "FeedbackSubmitted",
  "properties": {
    "feedback_id": {"type": "string"},
    "plan_id": {"type": "string"},
    "user_id": {"type": "string"},
    "day_key": {"type": "string"},
    "segment_key": {"type": "string"},
    "content": {"type": "string"},
    "created_at": {"type": "string", "format": "date-time"}
  },
  "required": ["feedback_id", "plan_id", "user_id", "content", "created_at"],
  "additionalProperties": false
}`

// schemaCatalog maps event type to its JSON schema definition.
var schemaCatalog = map[string]string{
	events.PlanGeneratedType:     planGeneratedSchema,
	events.PlanDeactivatedType:   planDeactivatedSchema,
	events.FeedbackSubmittedType: feedbackSubmittedSchema,
}
