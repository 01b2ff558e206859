package fallback

import (
	"fmt"
	"math"

	"example.com/wellplan/internal/catalog"
	"example.com/wellplan/internal/domain"
)

const (
	defaultMinutes     = 45
	caloriesPerHour    = 300
	lowIntensityCutoff = 0.6
)

// WorkoutInput is what the workout fallback needs from the profile and phase.
type WorkoutInput struct {
	Level            domain.FitnessLevel
	WorkoutType      string
	AvailableMinutes int
	MuscleFocus      string
	Phase            domain.PhaseDescriptor
}

// WorkoutInputFor collects the workout inputs from a profile and phase.
func WorkoutInputFor(p domain.Profile, phase domain.PhaseDescriptor) WorkoutInput {
	return WorkoutInput{
		Level:            p.FitnessLevel,
		WorkoutType:      p.WorkoutType,
		AvailableMinutes: p.AvailableMinutes,
		MuscleFocus:      p.MuscleFocus,
		Phase:            phase,
	}
}

// Workout builds the template session for the input. It never fails.
func Workout(in WorkoutInput) domain.WorkoutDocument {
	level := domain.NormalizeLevel(in.Level)
	workoutType := catalog.NormalizeType(in.WorkoutType)
	minutes := in.AvailableMinutes
	if minutes <= 0 {
		minutes = defaultMinutes
	}
	multiplier := in.Phase.Multiplier
	if multiplier <= 0 || multiplier > 1 {
		multiplier = 1
	}

	tpl := templateFor(workoutType, level)
	policy := catalog.PolicyFor(level)
	sets := int(math.Max(1, math.Round(float64(policy.Sets)*multiplier)))

	count := int(math.Ceil(float64(minutes) / 10))
	if count > len(tpl.main) {
		count = len(tpl.main)
	}

	main := make([]domain.Exercise, 0, count)
	for _, name := range tpl.main[:count] {
		ex := domain.Exercise{
			Name:        name,
			Sets:        sets,
			Reps:        policy.Reps,
			RestSeconds: policy.RestSeconds,
			Calories:    blockCalories(name),
		}
		if multiplier <= lowIntensityCutoff {
			ex.Notes = "Keep the effort light and stop well short of failure"
		}
		main = append(main, ex)
	}

	session := domain.WorkoutSession{
		Type:                workoutType,
		Level:               string(level),
		DurationMinutes:     minutes,
		EstimatedCalories:   int(math.Round(float64(minutes) / 60 * caloriesPerHour)),
		IntensityMultiplier: multiplier,
		Phase:               in.Phase.Tag,
		Warmup:              timedExercises(tpl.warmup),
		Main:                main,
		Cooldown:            timedExercises(tpl.cooldown),
		Tips:                append([]string(nil), in.Phase.Tips...),
	}

	description := fmt.Sprintf("%d-minute %s session for %s level.", minutes, tpl.label, level)
	if in.MuscleFocus != "" {
		description += fmt.Sprintf(" Requested focus: %s.", in.MuscleFocus)
	}
	if in.Phase.Rationale != "" {
		description += " " + in.Phase.Rationale + "."
	}

	return domain.WorkoutDocument{
		Name:        fmt.Sprintf("%s (%s)", tpl.label, level),
		Description: description,
		WorkoutPlan: session,
	}
}

func timedExercises(items []timed) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Exercise{Name: item.name, DurationSeconds: item.seconds})
	}
	return out
}
