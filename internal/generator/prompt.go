package generator

import (
	"fmt"
	"strings"

	"example.com/wellplan/internal/catalog"
	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/restrictions"
)

const dietShape = `{"name": string, "description": string, "daily_calories": int,
"macros": {"protein": int, "carbs": int, "fats": int},
"meal_plan": {"monday".."sunday": {"breakfast"|"lunch"|"dinner"|"snacks":
{"name": string, "foods": [string], "calories": int, "protein": int, "carbs": int, "fats": int}}}}`

const workoutShape = `{"name": string, "description": string,
"workout_plan": {"type": string, "level": string, "duration_minutes": int, "estimated_calories": int,
"warmup": [exercise], "main": [exercise], "cooldown": [exercise], "tips": [string]}}
exercise = {"name": string, "sets": int, "reps": string, "rest_seconds": int, "duration_seconds": int, "calories": int, "notes": string}`

const (
	dietSystemPrompt    = "You are a nutritionist who writes practical weekly meal plans. Answer with JSON only."
	workoutSystemPrompt = "You are a certified personal trainer who writes safe, progressive sessions. Answer with JSON only."
)

func dietPrompt(p domain.Profile, t domain.NutritionTargets, set restrictions.Set, cuisine string, feedback []string) string {
	var sb strings.Builder
	sb.WriteString("Create a 7-day meal plan (monday to sunday) with breakfast, lunch, dinner and snacks every day.\n\n")

	sb.WriteString("DAILY TARGETS:\n")
	fmt.Fprintf(&sb, "- calories: %d kcal\n- protein: %d g\n- carbs: %d g\n- fats: %d g\n- water: %.1f L\n",
		t.DailyCalories, t.ProteinG, t.CarbsG, t.FatsG, t.WaterGoalL)

	sb.WriteString("\nPROFILE:\n")
	fmt.Fprintf(&sb, "- goals: %s\n", joinGoals(p.Goals))
	if p.MealsPerDay > 0 {
		fmt.Fprintf(&sb, "- meals per day: %d\n", p.MealsPerDay)
	}
	if len(p.FavoriteFoods) > 0 {
		fmt.Fprintf(&sb, "- favourite foods (use often): %s\n", strings.Join(p.FavoriteFoods, ", "))
	}
	if len(p.DislikedFoods) > 0 {
		fmt.Fprintf(&sb, "- disliked foods (avoid): %s\n", strings.Join(p.DislikedFoods, ", "))
	}
	fmt.Fprintf(&sb, "- cuisine theme for this week: %s\n", cuisine)

	if !set.Empty() {
		sb.WriteString("\nHARD RESTRICTIONS (")
		sb.WriteString(strings.Join(set.Tags(), ", "))
		sb.WriteString("). NEVER include any of:\n")
		for _, term := range set.PromptTerms() {
			fmt.Fprintf(&sb, "- %s\n", term)
		}
	}

	writeFeedback(&sb, feedback)
	sb.WriteString("\nEach meal's calories and macros must add up to the daily targets across the day.\n")
	return sb.String()
}

func workoutPrompt(p domain.Profile, phase domain.PhaseDescriptor, feedback []string) string {
	level := domain.NormalizeLevel(p.FitnessLevel)
	policy := catalog.PolicyFor(level)
	minutes := p.AvailableMinutes
	if minutes <= 0 {
		minutes = 45
	}
	lo, hi := catalog.ExerciseRange(minutes)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create one %d-minute %s workout for a %s trainee.\n\n", minutes, catalog.NormalizeType(p.WorkoutType), level)

	sb.WriteString("RULES:\n")
	fmt.Fprintf(&sb, "- main block: between %d and %d exercises\n", lo, hi)
	fmt.Fprintf(&sb, "- main exercises: %d sets of %s reps, %d s rest\n", policy.Sets, policy.Reps, policy.RestSeconds)
	fmt.Fprintf(&sb, "- intensity multiplier for today: %.2f (%s)\n", phase.Multiplier, phase.Tag)
	if phase.Rationale != "" {
		fmt.Fprintf(&sb, "- reason: %s\n", phase.Rationale)
	}
	if p.MuscleFocus != "" {
		fmt.Fprintf(&sb, "- muscle focus: %s\n", p.MuscleFocus)
	}
	fmt.Fprintf(&sb, "- goals: %s\n", joinGoals(p.Goals))

	sb.WriteString("\nUSE ONLY THESE EXERCISE NAMES:\n")
	fmt.Fprintf(&sb, "- warmup: %s\n", strings.Join(catalog.WarmupMovements, ", "))
	fmt.Fprintf(&sb, "- main: %s\n", strings.Join(catalog.MainMovements(level), ", "))
	fmt.Fprintf(&sb, "- cooldown: %s\n", strings.Join(catalog.CooldownMovements, ", "))

	if len(phase.Tips) > 0 {
		sb.WriteString("\nADAPTATION TIPS TO RESPECT:\n")
		for _, tip := range phase.Tips {
			fmt.Fprintf(&sb, "- %s\n", tip)
		}
	}

	writeFeedback(&sb, feedback)
	return sb.String()
}

func writeFeedback(sb *strings.Builder, feedback []string) {
	if len(feedback) == 0 {
		return
	}
	sb.WriteString("\nUSER FEEDBACK ON THE PREVIOUS PLAN (address every point):\n")
	for _, line := range feedback {
		fmt.Fprintf(sb, "- %s\n", line)
	}
}

func joinGoals(goals []domain.Goal) string {
	if len(goals) == 0 {
		return "general health"
	}
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		out = append(out, string(domain.NormalizeGoal(g)))
	}
	return strings.Join(out, ", ")
}
