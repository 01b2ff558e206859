package planning

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/generator"
	"example.com/wellplan/internal/persistence/memory"
	"example.com/wellplan/internal/phase"
)

var fixedNow = time.Date(2024, time.May, 6, 8, 0, 0, 0, time.UTC)

type recordingGenerator struct {
	inner       *generator.Generator
	dietReqs    []generator.DietRequest
	workoutReqs []generator.WorkoutRequest
}

func (r *recordingGenerator) Diet(ctx context.Context, req generator.DietRequest) generator.Outcome {
	r.dietReqs = append(r.dietReqs, req)
	return r.inner.Diet(ctx, req)
}

func (r *recordingGenerator) Workout(ctx context.Context, req generator.WorkoutRequest) generator.Outcome {
	r.workoutReqs = append(r.workoutReqs, req)
	return r.inner.Workout(ctx, req)
}

type failingSwapStore struct {
	*memory.Store
}

func (failingSwapStore) SwapActivePlan(context.Context, domain.Plan) (string, error) {
	return "", errors.New("connection reset")
}

type fixedRefiner struct{ water float64 }

func (f fixedRefiner) Refine(_ context.Context, _ domain.Profile, t domain.NutritionTargets) domain.NutritionTargets {
	t.WaterGoalL = f.water
	return t
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func profile() domain.Profile {
	return domain.Profile{
		UserID:              "user-1",
		WeightKg:            65,
		HeightCm:            165,
		Age:                 28,
		ActivityLevel:       domain.ActivityModerate,
		Goals:               []domain.Goal{domain.GoalLoseWeight},
		FitnessLevel:        domain.LevelBeginner,
		DietaryRestrictions: []string{"vegan"},
		AvailableMinutes:    40,
		LifeStage:           domain.LifeStageMenstrual,
		Cycle:               &domain.CycleInfo{LastPeriodDate: fixedNow.AddDate(0, 0, -15), CycleLengthDays: 28},
	}
}

func newService(t *testing.T, store domain.Store, opts ...Option) (*Service, *recordingGenerator) {
	t.Helper()
	gen := &recordingGenerator{inner: generator.New(nil, generator.Config{}, generator.WithLogger(quiet()))}
	opts = append([]Option{WithLogger(quiet()), WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, gen, opts...), gen
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.SaveProfile(context.Background(), profile()))
	return store
}

func TestComputeTargetsCachesOnProfile(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc, _ := newService(t, store, WithRefiner(fixedRefiner{water: 3.1}))

	targets, err := svc.ComputeTargets(ctx, profile())
	require.NoError(t, err)
	require.Equal(t, 1839, targets.DailyCalories)
	require.Equal(t, 3.1, targets.WaterGoalL)

	stored, err := store.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored.Targets)
	require.Equal(t, 1839, stored.Targets.DailyCalories)
}

func TestComputeTargetsMissingField(t *testing.T) {
	svc, _ := newService(t, memory.NewStore())
	p := profile()
	p.WeightKg = 0

	_, err := svc.ComputeTargets(context.Background(), p)
	require.ErrorIs(t, err, domain.ErrMissingProfileField)
}

func TestGenerateDietFallsBackAndSaves(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc, gen := newService(t, store)

	result, err := svc.GenerateDiet(ctx, GenerateDietInput{UserID: "user-1"})
	require.NoError(t, err)
	require.True(t, result.Saved)
	require.True(t, result.FellBack())
	require.Equal(t, domain.PlanSourceFallback, result.Plan.Source)
	require.Equal(t, string(generator.ReasonDisabled), result.Plan.FallbackReason)
	require.Equal(t, 1839, gen.dietReqs[0].Targets.DailyCalories)

	active, err := svc.GetActivePlan(ctx, "user-1", domain.PlanKindDiet)
	require.NoError(t, err)
	require.Equal(t, result.Plan.ID, active.ID)
}

func TestGenerateDietUnknownUser(t *testing.T) {
	svc, _ := newService(t, memory.NewStore())
	_, err := svc.GenerateDiet(context.Background(), GenerateDietInput{UserID: "ghost"})
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestStoreFailureStillReturnsPlan(t *testing.T) {
	store := failingSwapStore{Store: seededStore(t)}
	svc, _ := newService(t, store)

	result, err := svc.GenerateWorkout(context.Background(), GenerateWorkoutInput{UserID: "user-1"})
	require.NoError(t, err)
	require.False(t, result.Saved)
	require.Error(t, result.SaveErr)
	require.NotEmpty(t, result.Plan.ID)
	require.NotNil(t, result.Plan.Workout)
	require.False(t, result.Plan.Active)

	active, err := store.GetActivePlan(context.Background(), "user-1", domain.PlanKindWorkout)
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestGenerateWorkoutUsesCyclePhase(t *testing.T) {
	svc, gen := newService(t, seededStore(t))

	result, err := svc.GenerateWorkout(context.Background(), GenerateWorkoutInput{UserID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseOvulatory, gen.workoutReqs[0].Phase.Tag)
	require.Equal(t, domain.PhaseOvulatory, result.Plan.Workout.WorkoutPlan.Phase)
}

func TestGenerateWorkoutDailyFeedbackOverridesCycle(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	p := profile()
	p.UsesDailyFeedback = true
	require.NoError(t, store.SaveProfile(ctx, p))
	svc, gen := newService(t, store)

	_, err := svc.GenerateWorkout(ctx, GenerateWorkoutInput{
		UserID: "user-1",
		Report: &domain.DailyReport{PhysicalFeeling: "tired", Energy: 3},
	})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseDailyFeedbackOverride, gen.workoutReqs[0].Phase.Tag)
	require.Equal(t, 0.7, gen.workoutReqs[0].Phase.Multiplier)
}

func TestGenerateWorkoutMissingCycleData(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	p := profile()
	p.Cycle = nil
	require.NoError(t, store.SaveProfile(ctx, p))
	svc, _ := newService(t, store)

	_, err := svc.GenerateWorkout(ctx, GenerateWorkoutInput{UserID: "user-1"})
	require.ErrorIs(t, err, phase.ErrCycleDataMissing)
}

func TestRegenerateWithFeedback(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc, gen := newService(t, store)

	first, err := svc.GenerateDiet(ctx, GenerateDietInput{UserID: "user-1"})
	require.NoError(t, err)

	record, err := svc.SubmitFeedback(ctx, SubmitFeedbackInput{
		UserID:     "user-1",
		PlanID:     first.Plan.ID,
		DayKey:     "Monday",
		SegmentKey: "lunch",
		Content:    "  too much rice ",
	})
	require.NoError(t, err)
	require.Equal(t, "monday", record.DayKey)
	require.Equal(t, "too much rice", record.Content)

	unchanged, err := svc.GetPlan(ctx, "user-1", first.Plan.ID)
	require.NoError(t, err)
	require.True(t, unchanged.Active)

	second, err := svc.Regenerate(ctx, RegenerateInput{UserID: "user-1", PlanID: first.Plan.ID})
	require.NoError(t, err)
	require.True(t, second.Saved)
	require.NotEqual(t, first.Plan.ID, second.Plan.ID)
	require.Equal(t, first.Plan.ID, second.PriorID)
	require.Equal(t, []string{"monday/lunch: too much rice"}, gen.dietReqs[1].Feedback)

	prior, err := svc.GetPlan(ctx, "user-1", first.Plan.ID)
	require.NoError(t, err)
	require.False(t, prior.Active)

	active, err := svc.GetActivePlan(ctx, "user-1", domain.PlanKindDiet)
	require.NoError(t, err)
	require.Equal(t, second.Plan.ID, active.ID)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, seededStore(t))
	workout, err := svc.GenerateWorkout(ctx, GenerateWorkoutInput{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(ctx, SubmitFeedbackInput{UserID: "user-1", PlanID: workout.Plan.ID, SegmentKey: "main", Content: " "})
	require.ErrorIs(t, err, ErrInvalidFeedback)

	_, err = svc.SubmitFeedback(ctx, SubmitFeedbackInput{UserID: "user-1", PlanID: workout.Plan.ID, SegmentKey: "lunch", Content: "x"})
	require.ErrorIs(t, err, ErrInvalidFeedback)

	_, err = svc.SubmitFeedback(ctx, SubmitFeedbackInput{UserID: "intruder", PlanID: workout.Plan.ID, Content: "x"})
	require.ErrorIs(t, err, domain.ErrPlanOwnership)

	_, err = svc.SubmitFeedback(ctx, SubmitFeedbackInput{UserID: "user-1", PlanID: "missing", Content: "x"})
	require.ErrorIs(t, err, domain.ErrPlanNotFound)

	rec, err := svc.SubmitFeedback(ctx, SubmitFeedbackInput{UserID: "user-1", PlanID: workout.Plan.ID, SegmentKey: "Main", Content: "knees hurt on lunges"})
	require.NoError(t, err)
	records, err := svc.ListFeedback(ctx, "user-1", workout.Plan.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.FeedbackRecord{rec}, records)
}

func TestDeactivateAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, seededStore(t))
	diet, err := svc.GenerateDiet(ctx, GenerateDietInput{UserID: "user-1"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeactivatePlan(ctx, "someone-else", diet.Plan.ID), domain.ErrPlanOwnership)
	require.NoError(t, svc.DeactivatePlan(ctx, "user-1", diet.Plan.ID))

	_, err = svc.GetActivePlan(ctx, "user-1", domain.PlanKindDiet)
	require.ErrorIs(t, err, domain.ErrPlanNotFound)

	plans, _, err := svc.ListPlans(ctx, "user-1", "", nil, 0)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.False(t, plans[0].Active)

	_, _, err = svc.ListPlans(ctx, "user-1", "meal", nil, 10)
	require.ErrorIs(t, err, ErrInvalidKind)
}
