package planning

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"example.com/wellplan/internal/domain"
)

var workoutSegments = map[string]bool{"warmup": true, "main": true, "cooldown": true}

// SubmitFeedbackInput is user feedback about part of a plan.
type SubmitFeedbackInput struct {
	UserID     string
	PlanID     string
	DayKey     string
	SegmentKey string
	Content    string
}

// SubmitFeedback appends a feedback record. The plan itself is not touched.
func (s *Service) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (domain.FeedbackRecord, error) {
	plan, err := s.GetPlan(ctx, input.UserID, input.PlanID)
	if err != nil {
		return domain.FeedbackRecord{}, err
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return domain.FeedbackRecord{}, fmt.Errorf("%w: content is required", ErrInvalidFeedback)
	}
	day := strings.ToLower(strings.TrimSpace(input.DayKey))
	segment := strings.ToLower(strings.TrimSpace(input.SegmentKey))
	if err := validateKeys(plan.Kind, day, segment); err != nil {
		return domain.FeedbackRecord{}, err
	}

	record := domain.FeedbackRecord{
		ID:         uuid.NewString(),
		PlanID:     plan.ID,
		UserID:     input.UserID,
		DayKey:     day,
		SegmentKey: segment,
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.InsertFeedback(ctx, record); err != nil {
		return domain.FeedbackRecord{}, err
	}
	return record, nil
}

// ListFeedback returns the feedback recorded against a plan owned by userID.
func (s *Service) ListFeedback(ctx context.Context, userID, planID string) ([]domain.FeedbackRecord, error) {
	if _, err := s.GetPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.ListFeedback(ctx, planID)
}

func validateKeys(kind domain.PlanKind, day, segment string) error {
	switch kind {
	case domain.PlanKindDiet:
		if day != "" && !contains(domain.Weekdays, day) {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidFeedback, day)
		}
		if segment != "" && !contains(domain.MealSlots, segment) {
			return fmt.Errorf("%w: unknown meal %q", ErrInvalidFeedback, segment)
		}
	case domain.PlanKindWorkout:
		if segment != "" && !workoutSegments[segment] {
			return fmt.Errorf("%w: unknown segment %q", ErrInvalidFeedback, segment)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// RegenerateInput selects the plan to replace. Report feeds the phase advisor for workouts.
type RegenerateInput struct {
	UserID string
	PlanID string
	Report *domain.DailyReport
}

// Regenerate builds a replacement for a plan with its feedback folded into the
// request, then stores the new plan as active, deactivating the prior one.
func (s *Service) Regenerate(ctx context.Context, input RegenerateInput) (Result, error) {
	prior, err := s.GetPlan(ctx, input.UserID, input.PlanID)
	if err != nil {
		return Result{}, err
	}
	profile, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return Result{}, err
	}
	records, err := s.store.ListFeedback(ctx, prior.ID)
	if err != nil {
		return Result{}, err
	}
	feedback := formatFeedback(records)

	switch prior.Kind {
	case domain.PlanKindDiet:
		return s.generateDiet(ctx, *profile, feedback)
	case domain.PlanKindWorkout:
		return s.generateWorkout(ctx, *profile, input.Report, feedback)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidKind, prior.Kind)
	}
}

func formatFeedback(records []domain.FeedbackRecord) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		key := strings.Trim(r.DayKey+"/"+r.SegmentKey, "/")
		if key == "" {
			lines = append(lines, r.Content)
			continue
		}
		lines = append(lines, key+": "+r.Content)
	}
	return lines
}
