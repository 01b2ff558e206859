// Package domain defines the types shared by the plan generation pipeline.
package domain

import (
	"strings"
	"time"
)

// ActivityLevel is one of the five ordered activity tiers.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentaria"
	ActivityLight      ActivityLevel = "leve"
	ActivityModerate   ActivityLevel = "moderada"
	ActivityActive     ActivityLevel = "intensa"
	ActivityVeryActive ActivityLevel = "muito-intensa"
)

var activityAliases = map[string]ActivityLevel{
	"sedentaria":    ActivitySedentary,
	"sedentario":    ActivitySedentary,
	"sedentary":     ActivitySedentary,
	"leve":          ActivityLight,
	"light":         ActivityLight,
	"moderada":      ActivityModerate,
	"moderado":      ActivityModerate,
	"moderate":      ActivityModerate,
	"intensa":       ActivityActive,
	"active":        ActivityActive,
	"muito-intensa": ActivityVeryActive,
	"very-active":   ActivityVeryActive,
	"very_active":   ActivityVeryActive,
}

// NormalizeActivity maps a raw tier (Portuguese or English) to its canonical value.
// Unknown tiers are returned as-is so callers can apply their own default.
func NormalizeActivity(raw ActivityLevel) ActivityLevel {
	if level, ok := activityAliases[normalizeTag(string(raw))]; ok {
		return level
	}
	return raw
}

// Goal tags a user objective.
type Goal string

const (
	GoalLoseWeight Goal = "perder-peso"
	GoalGainMuscle Goal = "ganhar-massa"
	GoalTone       Goal = "tonificar"
	GoalHealth     Goal = "saude"
)

var goalAliases = map[string]Goal{
	"perder-peso":  GoalLoseWeight,
	"lose-weight":  GoalLoseWeight,
	"ganhar-massa": GoalGainMuscle,
	"gain-muscle":  GoalGainMuscle,
	"tonificar":    GoalTone,
	"tone":         GoalTone,
	"saude":        GoalHealth,
	"health":       GoalHealth,
}

// NormalizeGoal maps a raw goal tag to its canonical value.
func NormalizeGoal(raw Goal) Goal {
	if goal, ok := goalAliases[normalizeTag(string(raw))]; ok {
		return goal
	}
	return raw
}

// FitnessLevel is the training experience tier.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// NormalizeLevel maps raw fitness levels, defaulting unknown values to beginner.
func NormalizeLevel(raw FitnessLevel) FitnessLevel {
	switch normalizeTag(string(raw)) {
	case "intermediate", "intermediario", "intermediaria":
		return LevelIntermediate
	case "advanced", "avancado", "avancada":
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// LifeStage selects the phase computation branch.
type LifeStage string

const (
	LifeStageMenstrual     LifeStage = "menstrual"
	LifeStagePerimenopause LifeStage = "perimenopause"
	LifeStageMenopause     LifeStage = "menopause"
	LifeStagePostmenopause LifeStage = "postmenopause"
)

// CycleInfo holds the inputs needed to bucket a menstrual cycle day.
type CycleInfo struct {
	LastPeriodDate  time.Time `json:"last_period_date"`
	CycleLengthDays int       `json:"cycle_length_days"`
}

// Symptom is an active menopause symptom with a 1-5 severity.
type Symptom struct {
	Name     string `json:"name"`
	Severity int    `json:"severity"`
}

// DailyReport is the user's self-reported state for the day.
type DailyReport struct {
	Energy          int       `json:"energy"`
	Mood            string    `json:"mood"`
	PhysicalFeeling string    `json:"physical_feeling"`
	SleepQuality    int       `json:"sleep_quality"`
	StressLevel     int       `json:"stress_level"`
	ReportedAt      time.Time `json:"reported_at"`
}

// Profile is the read-only snapshot of a user consumed by every pipeline call.
type Profile struct {
	UserID              string            `json:"user_id"`
	WeightKg            float64           `json:"weight_kg"`
	HeightCm            float64           `json:"height_cm"`
	Age                 int               `json:"age"`
	Sex                 string            `json:"sex,omitempty"`
	ActivityLevel       ActivityLevel     `json:"activity_level"`
	Goals               []Goal            `json:"goals"`
	FitnessLevel        FitnessLevel      `json:"fitness_level"`
	DietaryRestrictions []string          `json:"dietary_restrictions"`
	DislikedFoods       []string          `json:"disliked_foods"`
	FavoriteFoods       []string          `json:"favorite_foods"`
	MealsPerDay         int               `json:"meals_per_day"`
	AvailableMinutes    int               `json:"available_minutes"`
	MuscleFocus         string            `json:"muscle_focus,omitempty"`
	WorkoutType         string            `json:"workout_type,omitempty"`
	LifeStage           LifeStage         `json:"life_stage"`
	UsesDailyFeedback   bool              `json:"uses_daily_feedback"`
	Cycle               *CycleInfo        `json:"cycle,omitempty"`
	Symptoms            []Symptom         `json:"symptoms,omitempty"`
	Targets             *NutritionTargets `json:"targets,omitempty"`
}

// HasGoal reports whether the profile carries the goal, comparing normalized tags.
func (p Profile) HasGoal(goal Goal) bool {
	want := NormalizeGoal(goal)
	for _, g := range p.Goals {
		if NormalizeGoal(g) == want {
			return true
		}
	}
	return false
}

// IsMale reports whether the male BMR form applies.
func (p Profile) IsMale() bool {
	switch normalizeTag(p.Sex) {
	case "male", "m", "masculino":
		return true
	}
	return false
}

// ValidatePhysiology checks the inputs target computation cannot guess.
func (p Profile) ValidatePhysiology() error {
	switch {
	case p.WeightKg <= 0:
		return &MissingFieldError{Field: "weight_kg"}
	case p.HeightCm <= 0:
		return &MissingFieldError{Field: "height_cm"}
	case p.Age <= 0:
		return &MissingFieldError{Field: "age"}
	}
	return nil
}

func normalizeTag(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(value, " ", "-")
}
