package api

import (
	"errors"

	"example.com/wellplan/internal/domain"
)

// ReportRequest carries an optional daily self-report.
type ReportRequest struct {
	Report *domain.DailyReport `json:"report,omitempty"`
}

// GenerateWorkoutRequest is the payload for POST /v1/plans/workout. Every field is optional.
type GenerateWorkoutRequest struct {
	WorkoutType      string              `json:"workout_type,omitempty"`
	AvailableMinutes int                 `json:"available_minutes,omitempty"`
	Report           *domain.DailyReport `json:"report,omitempty"`
}

// Validate ensures request correctness.
func (r GenerateWorkoutRequest) Validate() error {
	if r.AvailableMinutes < 0 || r.AvailableMinutes > 240 {
		return errors.New("available_minutes must be between 0 and 240")
	}
	if r.Report != nil {
		scores := []struct {
			name  string
			value int
		}{
			{"energy", r.Report.Energy},
			{"sleep_quality", r.Report.SleepQuality},
			{"stress_level", r.Report.StressLevel},
		}
		for _, score := range scores {
			if score.value < 0 || score.value > 5 {
				return errors.New(score.name + " must be between 1 and 5")
			}
		}
	}
	return nil
}

// FeedbackRequest is the payload for POST /v1/plans/{id}/feedback.
type FeedbackRequest struct {
	DayKey     string `json:"day_key,omitempty"`
	SegmentKey string `json:"segment_key,omitempty"`
	Content    string `json:"content"`
}

// PlanResponse describes a freshly generated plan.
type PlanResponse struct {
	Plan        domain.Plan `json:"plan"`
	FellBack    bool        `json:"fell_back"`
	Saved       bool        `json:"saved"`
	SaveError   string      `json:"save_error,omitempty"`
	PriorPlanID string      `json:"prior_plan_id,omitempty"`
}

// ListPlansResponse packages plan history results.
type ListPlansResponse struct {
	Items      []domain.Plan `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ListFeedbackResponse packages the feedback recorded against a plan.
type ListFeedbackResponse struct {
	Items []domain.FeedbackRecord `json:"items"`
}
