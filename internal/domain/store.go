package domain

import "context"

// Store captures the persistence operations the pipeline depends on.
//
// Lookups return (nil, nil) when nothing matches; callers translate that into
// ErrPlanNotFound or ErrProfileNotFound.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	SaveProfile(ctx context.Context, profile Profile) error
	SaveTargets(ctx context.Context, userID string, targets NutritionTargets) error

	GetPlan(ctx context.Context, planID string) (*Plan, error)
	GetActivePlan(ctx context.Context, userID string, kind PlanKind) (*Plan, error)
	ListPlans(ctx context.Context, userID string, kind PlanKind, cursor *Cursor, limit int) ([]Plan, *Cursor, error)
	DeactivatePlan(ctx context.Context, planID string) error
	// SwapActivePlan deactivates the current active plan of the same user and kind
	// and inserts plan as the new active one. Implementations serialize swaps per
	// (user, kind) so the last writer wins and at most one plan stays active.
	SwapActivePlan(ctx context.Context, plan Plan) (priorID string, err error)

	InsertFeedback(ctx context.Context, record FeedbackRecord) error
	ListFeedback(ctx context.Context, planID string) ([]FeedbackRecord, error)
}
