// Package generator builds plans through the generative service, validates the
// response, and falls back to the deterministic synthesizer on any failure.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/fallback"
	"example.com/wellplan/internal/genai"
	"example.com/wellplan/internal/observability"
	"example.com/wellplan/internal/restrictions"
)

// Config tunes completion requests.
type Config struct {
	Temperature float64
	MaxTokens   int
}

// Generator produces diet and workout plans. It makes at most one completion
// call per request and never retries.
type Generator struct {
	client genai.Completer
	cfg    Config
	logger *log.Logger
	now    func() time.Time
}

// Option configures optional behaviour for the Generator.
type Option func(*Generator)

// WithLogger overrides the logger used to report fallbacks.
func WithLogger(logger *log.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New constructs a Generator. A nil client disables generation and every call falls back.
func New(client genai.Completer, cfg Config, opts ...Option) *Generator {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	g := &Generator{
		client: client,
		cfg:    cfg,
		logger: log.New(log.Writer(), "[generator] ", log.LstdFlags),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DietRequest carries the diet generation inputs.
type DietRequest struct {
	Profile  domain.Profile
	Targets  domain.NutritionTargets
	Feedback []string
}

// WorkoutRequest carries the workout generation inputs.
type WorkoutRequest struct {
	Profile  domain.Profile
	Phase    domain.PhaseDescriptor
	Feedback []string
}

// Diet returns an Attempted plan when the service answers with a valid diet,
// otherwise a FellBack plan built from the weekly templates.
func (g *Generator) Diet(ctx context.Context, req DietRequest) Outcome {
	set := restrictions.Expand(req.Profile.DietaryRestrictions)
	fallbackPlan := func() domain.Plan {
		doc := fallback.Diet(req.Profile, req.Targets)
		return g.newPlan(req.Profile.UserID, domain.PlanKindDiet, func(p *domain.Plan) { p.Diet = &doc })
	}

	raw, reason, err := g.complete(ctx, domain.PlanKindDiet, []genai.Message{
		{Role: "system", Content: dietSystemPrompt},
		{Role: "user", Content: dietPrompt(req.Profile, req.Targets, set, CuisineHint(req.Profile.UserID, g.now()), req.Feedback)},
	}, dietShape)
	if err != nil {
		return g.fellBack(req.Profile.UserID, fallbackPlan(), reason, err)
	}

	doc, err := ValidateDiet(raw, set)
	if err != nil {
		return g.fellBack(req.Profile.UserID, fallbackPlan(), classify(err), err)
	}
	if doc.DailyCalories <= 0 {
		doc.DailyCalories = req.Targets.DailyCalories
	}
	if doc.Macros == (domain.Macros{}) {
		doc.Macros = domain.Macros{ProteinG: req.Targets.ProteinG, CarbsG: req.Targets.CarbsG, FatsG: req.Targets.FatsG}
	}

	plan := g.newPlan(req.Profile.UserID, domain.PlanKindDiet, func(p *domain.Plan) { p.Diet = doc })
	plan.Source = domain.PlanSourceAI
	observability.RecordGeneration(string(domain.PlanKindDiet), string(domain.PlanSourceAI), "")
	return Attempted{Generated: plan}
}

// Workout returns an Attempted plan when the service answers with a valid
// workout using only allow-listed exercises, otherwise a FellBack template plan.
func (g *Generator) Workout(ctx context.Context, req WorkoutRequest) Outcome {
	level := domain.NormalizeLevel(req.Profile.FitnessLevel)
	fallbackPlan := func() domain.Plan {
		doc := fallback.Workout(fallback.WorkoutInputFor(req.Profile, req.Phase))
		return g.newPlan(req.Profile.UserID, domain.PlanKindWorkout, func(p *domain.Plan) { p.Workout = &doc })
	}

	raw, reason, err := g.complete(ctx, domain.PlanKindWorkout, []genai.Message{
		{Role: "system", Content: workoutSystemPrompt},
		{Role: "user", Content: workoutPrompt(req.Profile, req.Phase, req.Feedback)},
	}, workoutShape)
	if err != nil {
		return g.fellBack(req.Profile.UserID, fallbackPlan(), reason, err)
	}

	doc, err := ValidateWorkout(raw, level)
	if err != nil {
		return g.fellBack(req.Profile.UserID, fallbackPlan(), classify(err), err)
	}

	session := &doc.WorkoutPlan
	session.Level = string(level)
	session.Phase = req.Phase.Tag
	session.IntensityMultiplier = req.Phase.Multiplier
	if len(session.Tips) == 0 {
		session.Tips = append([]string(nil), req.Phase.Tips...)
	}

	plan := g.newPlan(req.Profile.UserID, domain.PlanKindWorkout, func(p *domain.Plan) { p.Workout = doc })
	plan.Source = domain.PlanSourceAI
	observability.RecordGeneration(string(domain.PlanKindWorkout), string(domain.PlanSourceAI), "")
	return Attempted{Generated: plan}
}

func (g *Generator) complete(ctx context.Context, kind domain.PlanKind, messages []genai.Message, shape string) (json.RawMessage, Reason, error) {
	if g.client == nil {
		return nil, ReasonDisabled, genai.ErrNotConfigured
	}

	start := time.Now()
	raw, err := g.client.Complete(ctx, genai.Request{
		Messages:    messages,
		Shape:       shape,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	observability.ObserveCompletion(string(kind), time.Since(start))
	if err != nil {
		return nil, classify(err), err
	}
	return raw, "", nil
}

func (g *Generator) fellBack(userID string, plan domain.Plan, reason Reason, cause error) FellBack {
	plan.Source = domain.PlanSourceFallback
	plan.FallbackReason = string(reason)
	g.logger.Printf("%s plan for user=%s fell back (%s): %v", plan.Kind, userID, reason, cause)
	observability.RecordGeneration(string(plan.Kind), string(domain.PlanSourceFallback), string(reason))
	return FellBack{Fallback: plan, Reason: reason, Cause: cause}
}

func (g *Generator) newPlan(userID string, kind domain.PlanKind, attach func(*domain.Plan)) domain.Plan {
	plan := domain.Plan{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Active:    true,
		CreatedAt: g.now().UTC(),
	}
	attach(&plan)
	return plan
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, genai.ErrNotConfigured):
		return ReasonDisabled
	case errors.Is(err, genai.ErrEmptyCompletion), errors.Is(err, genai.ErrNoJSONDocument), errors.Is(err, ErrMalformed):
		return ReasonMalformed
	case errors.Is(err, ErrInvalidShape):
		return ReasonInvalidShape
	case errors.Is(err, ErrDisallowedExercise):
		return ReasonDisallowedExercise
	case errors.Is(err, ErrRestrictedFood):
		return ReasonRestrictedFood
	default:
		return ReasonUnavailable
	}
}
