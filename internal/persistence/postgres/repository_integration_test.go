//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/events"
	"example.com/wellplan/internal/testsupport"
)

func workoutPlan(userID string, at time.Time) domain.Plan {
	return domain.Plan{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      domain.PlanKindWorkout,
		Source:    domain.PlanSourceFallback,
		Active:    true,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
		Workout: &domain.WorkoutDocument{
			Name: "Strength session",
			WorkoutPlan: domain.WorkoutSession{
				Type:                "musculacao",
				Level:               "beginner",
				DurationMinutes:     30,
				IntensityMultiplier: 1,
				Main:                []domain.Exercise{{Name: "Goblet squat", Sets: 2, Reps: "12-15"}},
			},
		},
		FallbackReason: "disabled",
	}
}

func countOutbox(t *testing.T, ctx context.Context, repo *Repository, eventType string) int {
	t.Helper()
	var count int
	require.NoError(t, repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE event_type=$1`, eventType).Scan(&count))
	return count
}

func TestRepositoryProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := testsupport.StartPostgres(ctx, t)
	defer cleanup()
	repo := NewRepository(pool)

	missing, err := repo.GetProfile(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)
	require.ErrorIs(t, repo.SaveTargets(ctx, "nobody", domain.NutritionTargets{}), domain.ErrProfileNotFound)

	profile := domain.Profile{UserID: "u1", WeightKg: 70, HeightCm: 165, Age: 30, Goals: []domain.Goal{domain.GoalLoseWeight}}
	require.NoError(t, repo.SaveProfile(ctx, profile))
	require.NoError(t, repo.SaveTargets(ctx, "u1", domain.NutritionTargets{DailyCalories: 1839, ProteinG: 112}))

	stored, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 70.0, stored.WeightKg)
	require.NotNil(t, stored.Targets)
	require.Equal(t, 1839, stored.Targets.DailyCalories)

	require.NoError(t, repo.SaveProfile(ctx, profile))
	stored, err = repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, stored.Targets, "saving a profile without targets clears the cache")
}

func TestRepositorySwapRecordsOutboxEvents(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := testsupport.StartPostgres(ctx, t)
	defer cleanup()
	repo := NewRepository(pool)

	now := time.Now()
	first := workoutPlan("u1", now)
	prior, err := repo.SwapActivePlan(ctx, first)
	require.NoError(t, err)
	require.Empty(t, prior)

	second := workoutPlan("u1", now.Add(time.Second))
	prior, err = repo.SwapActivePlan(ctx, second)
	require.NoError(t, err)
	require.Equal(t, first.ID, prior)

	active, err := repo.GetActivePlan(ctx, "u1", domain.PlanKindWorkout)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)
	require.Equal(t, "Goblet squat", active.Workout.WorkoutPlan.Main[0].Name)
	require.Equal(t, "disabled", active.FallbackReason)

	old, err := repo.GetPlan(ctx, first.ID)
	require.NoError(t, err)
	require.False(t, old.Active)

	require.Equal(t, 2, countOutbox(t, ctx, repo, events.PlanGeneratedType))
	require.Equal(t, 1, countOutbox(t, ctx, repo, events.PlanDeactivatedType))

	require.NoError(t, repo.DeactivatePlan(ctx, second.ID))
	require.NoError(t, repo.DeactivatePlan(ctx, second.ID))
	require.Equal(t, 2, countOutbox(t, ctx, repo, events.PlanDeactivatedType))
	require.ErrorIs(t, repo.DeactivatePlan(ctx, "missing"), domain.ErrPlanNotFound)

	none, err := repo.GetActivePlan(ctx, "u1", domain.PlanKindWorkout)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestRepositoryConcurrentSwapsLeaveOneActive(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := testsupport.StartPostgres(ctx, t)
	defer cleanup()
	repo := NewRepository(pool)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.SwapActivePlan(ctx, workoutPlan("u1", time.Now().Add(time.Duration(i)*time.Millisecond)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var active int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM plans WHERE user_id='u1' AND active`).Scan(&active))
	require.Equal(t, 1, active)
}

func TestRepositoryListPlansPaginates(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := testsupport.StartPostgres(ctx, t)
	defer cleanup()
	repo := NewRepository(pool)

	base := time.Now()
	for i := 0; i < 5; i++ {
		_, err := repo.SwapActivePlan(ctx, workoutPlan("u1", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	page, cursor, err := repo.ListPlans(ctx, "u1", domain.PlanKindWorkout, nil, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotNil(t, cursor)
	require.True(t, page[0].CreatedAt.After(page[1].CreatedAt))
	require.True(t, page[0].Active)

	rest, next, err := repo.ListPlans(ctx, "u1", "", cursor, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	require.Nil(t, next)

	diets, _, err := repo.ListPlans(ctx, "u1", domain.PlanKindDiet, nil, 3)
	require.NoError(t, err)
	require.Empty(t, diets)
}

func TestRepositoryFeedback(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := testsupport.StartPostgres(ctx, t)
	defer cleanup()
	repo := NewRepository(pool)

	plan := workoutPlan("u1", time.Now())
	_, err := repo.SwapActivePlan(ctx, plan)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.InsertFeedback(ctx, domain.FeedbackRecord{
			ID:         uuid.NewString(),
			PlanID:     plan.ID,
			UserID:     "u1",
			SegmentKey: "main",
			Content:    fmt.Sprintf("note %d", i),
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	err = repo.InsertFeedback(ctx, domain.FeedbackRecord{ID: uuid.NewString(), PlanID: "missing", UserID: "u1", Content: "x", CreatedAt: time.Now()})
	require.ErrorIs(t, err, domain.ErrPlanNotFound)

	records, err := repo.ListFeedback(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "note 0", records[0].Content)
	require.Equal(t, "main", records[0].SegmentKey)
	require.Empty(t, records[0].DayKey)
	require.Equal(t, 2, countOutbox(t, ctx, repo, events.FeedbackSubmittedType))
}
