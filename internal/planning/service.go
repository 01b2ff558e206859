// Package planning orchestrates target computation, phase advice, plan
// generation, feedback and regeneration on top of a domain.Store.
package planning

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/generator"
	"example.com/wellplan/internal/nutrition"
	"example.com/wellplan/internal/observability"
	"example.com/wellplan/internal/phase"
)

var (
	// ErrInvalidFeedback indicates feedback with no content or an unknown day/segment key.
	ErrInvalidFeedback = errors.New("invalid feedback")
	// ErrInvalidKind indicates an unknown plan kind.
	ErrInvalidKind = errors.New("invalid plan kind")
)

// PlanGenerator produces plans; *generator.Generator satisfies it.
type PlanGenerator interface {
	Diet(ctx context.Context, req generator.DietRequest) generator.Outcome
	Workout(ctx context.Context, req generator.WorkoutRequest) generator.Outcome
}

// TargetRefiner adjusts computed targets; *nutrition.Refiner satisfies it.
type TargetRefiner interface {
	Refine(ctx context.Context, p domain.Profile, targets domain.NutritionTargets) domain.NutritionTargets
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRefiner enables target refinement through the generative service.
func WithRefiner(refiner TargetRefiner) Option {
	return func(s *Service) {
		s.refiner = refiner
	}
}

// WithClock overrides the time source used for phase computation and records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service is the library surface of the plan generation pipeline.
type Service struct {
	store     domain.Store
	generator PlanGenerator
	refiner   TargetRefiner
	logger    *log.Logger
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(store domain.Store, gen PlanGenerator, opts ...Option) *Service {
	s := &Service{
		store:     store,
		generator: gen,
		logger:    log.New(log.Writer(), "[planning] ", log.LstdFlags),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is a generated plan plus its persistence state. Plan is always usable;
// Saved is false when the store rejected it, with the cause in SaveErr, and an
// unsaved Plan is never reported as active.
type Result struct {
	Outcome generator.Outcome
	Plan    domain.Plan
	PriorID string
	Saved   bool
	SaveErr error
}

// FellBack reports whether the deterministic path produced the plan.
func (r Result) FellBack() bool {
	_, ok := r.Outcome.(generator.FellBack)
	return ok
}

// SaveProfile stores the user's profile.
func (s *Service) SaveProfile(ctx context.Context, profile domain.Profile) error {
	if strings.TrimSpace(profile.UserID) == "" {
		return &domain.MissingFieldError{Field: "user_id"}
	}
	return s.store.SaveProfile(ctx, profile)
}

// GetProfile loads the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

// ComputeTargets recalculates the targets for profile, optionally refines them,
// and caches them on the stored profile. A caching failure is logged, not returned.
func (s *Service) ComputeTargets(ctx context.Context, profile domain.Profile) (domain.NutritionTargets, error) {
	targets, err := nutrition.Compute(profile)
	if err != nil {
		return domain.NutritionTargets{}, err
	}
	if s.refiner != nil {
		targets = s.refiner.Refine(ctx, profile, targets)
	}
	if profile.UserID != "" {
		if err := s.store.SaveTargets(ctx, profile.UserID, targets); err != nil {
			s.logger.Printf("cache targets (user=%s): %v", profile.UserID, err)
		}
	}
	return targets, nil
}

// GenerateDietInput selects the user whose stored profile drives the diet.
type GenerateDietInput struct {
	UserID string
}

// GenerateDiet builds a diet from the stored profile and cached targets
// (computing them when absent) and stores it as the active diet.
func (s *Service) GenerateDiet(ctx context.Context, input GenerateDietInput) (Result, error) {
	profile, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return Result{}, err
	}
	return s.generateDiet(ctx, *profile, nil)
}

// GenerateWorkoutInput selects the user and carries today's self-report, if any.
// WorkoutType and AvailableMinutes override the stored profile for this request only.
type GenerateWorkoutInput struct {
	UserID           string
	WorkoutType      string
	AvailableMinutes int
	Report           *domain.DailyReport
}

// GenerateWorkout advises the current phase and builds a workout stored as the active workout.
func (s *Service) GenerateWorkout(ctx context.Context, input GenerateWorkoutInput) (Result, error) {
	profile, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return Result{}, err
	}
	if input.WorkoutType != "" {
		profile.WorkoutType = input.WorkoutType
	}
	if input.AvailableMinutes > 0 {
		profile.AvailableMinutes = input.AvailableMinutes
	}
	return s.generateWorkout(ctx, *profile, input.Report, nil)
}

// AdvisePhase returns the phase descriptor for the stored profile.
func (s *Service) AdvisePhase(ctx context.Context, userID string, report *domain.DailyReport) (domain.PhaseDescriptor, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.PhaseDescriptor{}, err
	}
	return phase.Advise(*profile, phase.Input{Now: s.now(), Report: report})
}

func (s *Service) generateDiet(ctx context.Context, profile domain.Profile, feedback []string) (Result, error) {
	var targets domain.NutritionTargets
	if profile.Targets != nil && profile.Targets.DailyCalories >= domain.MinDailyCalories {
		targets = *profile.Targets
	} else {
		computed, err := s.ComputeTargets(ctx, profile)
		if err != nil {
			return Result{}, err
		}
		targets = computed
	}

	outcome := s.generator.Diet(ctx, generator.DietRequest{Profile: profile, Targets: targets, Feedback: feedback})
	return s.persist(ctx, outcome), nil
}

func (s *Service) generateWorkout(ctx context.Context, profile domain.Profile, report *domain.DailyReport, feedback []string) (Result, error) {
	descriptor, err := phase.Advise(profile, phase.Input{Now: s.now(), Report: report})
	if err != nil {
		return Result{}, err
	}
	outcome := s.generator.Workout(ctx, generator.WorkoutRequest{Profile: profile, Phase: descriptor, Feedback: feedback})
	return s.persist(ctx, outcome), nil
}

func (s *Service) persist(ctx context.Context, outcome generator.Outcome) Result {
	plan := outcome.Plan()
	result := Result{Outcome: outcome, Plan: plan}

	priorID, err := s.store.SwapActivePlan(ctx, plan)
	if err != nil {
		s.logger.Printf("store %s plan %s (user=%s): %v", plan.Kind, plan.ID, plan.UserID, err)
		observability.RecordPlanSaveFailure(string(plan.Kind))
		result.Plan.Active = false
		result.SaveErr = err
		return result
	}
	result.PriorID = priorID
	result.Saved = true
	observability.RecordPlanPersisted(plan.CreatedAt)
	return result
}

// GetPlan returns a plan owned by userID.
func (s *Service) GetPlan(ctx context.Context, userID, planID string) (*domain.Plan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if plan.UserID != userID {
		return nil, domain.ErrPlanOwnership
	}
	return plan, nil
}

// GetActivePlan returns the user's active plan of kind.
func (s *Service) GetActivePlan(ctx context.Context, userID string, kind domain.PlanKind) (*domain.Plan, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	plan, err := s.store.GetActivePlan(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns the user's plan history, newest first. An empty kind lists both kinds.
func (s *Service) ListPlans(ctx context.Context, userID string, kind domain.PlanKind, cursor *domain.Cursor, limit int) ([]domain.Plan, *domain.Cursor, error) {
	if kind != "" && !kind.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListPlans(ctx, userID, kind, cursor, limit)
}

// DeactivatePlan marks a plan owned by userID inactive. Plans are never deleted.
func (s *Service) DeactivatePlan(ctx context.Context, userID, planID string) error {
	if _, err := s.GetPlan(ctx, userID, planID); err != nil {
		return err
	}
	return s.store.DeactivatePlan(ctx, planID)
}
