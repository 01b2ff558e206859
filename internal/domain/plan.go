package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PlanKind distinguishes diet and workout plans.
type PlanKind string

const (
	PlanKindDiet    PlanKind = "diet"
	PlanKindWorkout PlanKind = "workout"
)

// Valid reports whether the kind is known.
func (k PlanKind) Valid() bool {
	return k == PlanKindDiet || k == PlanKindWorkout
}

// PlanSource records which path produced a plan.
type PlanSource string

const (
	PlanSourceAI       PlanSource = "ai"
	PlanSourceFallback PlanSource = "fallback"
)

// Weekdays lists the day keys every diet plan must carry, in display order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// MealSlots lists the meal keys every diet day must carry.
var MealSlots = []string{"breakfast", "lunch", "dinner", "snacks"}

// Plan is a generated diet or workout plan. Exactly one of Diet or Workout is set.
type Plan struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	Kind           PlanKind         `json:"kind"`
	Source         PlanSource       `json:"source"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"created_at"`
	Diet           *DietDocument    `json:"diet,omitempty"`
	Workout        *WorkoutDocument `json:"workout,omitempty"`
}

// Document marshals the structured document carried by the plan.
func (p Plan) Document() ([]byte, error) {
	switch p.Kind {
	case PlanKindDiet:
		if p.Diet == nil {
			return nil, fmt.Errorf("diet plan %s has no document", p.ID)
		}
		return json.Marshal(p.Diet)
	case PlanKindWorkout:
		if p.Workout == nil {
			return nil, fmt.Errorf("workout plan %s has no document", p.ID)
		}
		return json.Marshal(p.Workout)
	default:
		return nil, fmt.Errorf("unknown plan kind %q", p.Kind)
	}
}

// SetDocument decodes raw into the document field matching the plan kind.
func (p *Plan) SetDocument(raw []byte) error {
	switch p.Kind {
	case PlanKindDiet:
		var doc DietDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		p.Diet = &doc
	case PlanKindWorkout:
		var doc WorkoutDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		p.Workout = &doc
	default:
		return fmt.Errorf("unknown plan kind %q", p.Kind)
	}
	return nil
}

// Macros groups gram values.
type Macros struct {
	ProteinG int `json:"protein"`
	CarbsG   int `json:"carbs"`
	FatsG    int `json:"fats"`
}

// Meal is a single meal slot of a diet day.
type Meal struct {
	Name     string   `json:"name"`
	Foods    []string `json:"foods"`
	Calories int      `json:"calories"`
	ProteinG int      `json:"protein"`
	CarbsG   int      `json:"carbs"`
	FatsG    int      `json:"fats"`
}

// DayMenu holds the four meal slots for one day.
type DayMenu struct {
	Breakfast Meal `json:"breakfast"`
	Lunch     Meal `json:"lunch"`
	Dinner    Meal `json:"dinner"`
	Snacks    Meal `json:"snacks"`
}

// Slot returns the meal stored under a meal key.
func (d DayMenu) Slot(key string) (Meal, bool) {
	switch key {
	case "breakfast":
		return d.Breakfast, true
	case "lunch":
		return d.Lunch, true
	case "dinner":
		return d.Dinner, true
	case "snacks":
		return d.Snacks, true
	}
	return Meal{}, false
}

// DietDocument is the structured diet plan exchanged with the generative service.
type DietDocument struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	DailyCalories int                `json:"daily_calories"`
	Macros        Macros             `json:"macros"`
	MealPlan      map[string]DayMenu `json:"meal_plan"`
}

// Exercise is one entry of a workout segment.
type Exercise struct {
	Name            string `json:"name"`
	Sets            int    `json:"sets,omitempty"`
	Reps            string `json:"reps,omitempty"`
	RestSeconds     int    `json:"rest_seconds,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Calories        int    `json:"calories,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// WorkoutSession is the body of a workout plan.
type WorkoutSession struct {
	Type                string     `json:"type"`
	Level               string     `json:"level"`
	DurationMinutes     int        `json:"duration_minutes"`
	EstimatedCalories   int        `json:"estimated_calories"`
	IntensityMultiplier float64    `json:"intensity_multiplier"`
	Phase               PhaseTag   `json:"phase,omitempty"`
	Warmup              []Exercise `json:"warmup"`
	Main                []Exercise `json:"main"`
	Cooldown            []Exercise `json:"cooldown"`
	Tips                []string   `json:"tips,omitempty"`
}

// Segments returns the exercise lists keyed by segment name.
func (s WorkoutSession) Segments() map[string][]Exercise {
	return map[string][]Exercise{
		"warmup":   s.Warmup,
		"main":     s.Main,
		"cooldown": s.Cooldown,
	}
}

// WorkoutDocument is the structured workout plan exchanged with the generative service.
type WorkoutDocument struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	WorkoutPlan WorkoutSession `json:"workout_plan"`
}

// FeedbackRecord is user feedback about one part of a saved plan. It is never mutated.
type FeedbackRecord struct {
	ID         string    `json:"id"`
	PlanID     string    `json:"plan_id"`
	UserID     string    `json:"user_id"`
	DayKey     string    `json:"day_key,omitempty"`
	SegmentKey string    `json:"segment_key,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cursor models the plan history pagination token.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}
