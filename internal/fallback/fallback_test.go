package fallback

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/catalog"
	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/restrictions"
)

func targets() domain.NutritionTargets {
	return domain.NutritionTargets{DailyCalories: 2000, ProteinG: 104, CarbsG: 258, FatsG: 56}
}

func TestDietIsDeterministic(t *testing.T) {
	p := domain.Profile{DietaryRestrictions: []string{"vegan"}, DislikedFoods: []string{"Banana"}}

	first, err := json.Marshal(Diet(p, targets()))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Diet(p, targets()))
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDietCoversEveryDayAndSlot(t *testing.T) {
	doc := Diet(domain.Profile{}, targets())

	require.Len(t, doc.MealPlan, 7)
	for _, day := range domain.Weekdays {
		menu, ok := doc.MealPlan[day]
		require.True(t, ok, day)
		calories := 0
		for _, slot := range domain.MealSlots {
			meal, ok := menu.Slot(slot)
			require.True(t, ok)
			require.NotEmpty(t, meal.Name)
			require.NotEmpty(t, meal.Foods, "%s/%s", day, slot)
			calories += meal.Calories
		}
		require.Equal(t, 2000, calories)
	}

	monday := doc.MealPlan["monday"]
	require.Equal(t, 600, monday.Breakfast.Calories)
	require.Greater(t, monday.Lunch.CarbsG, monday.Dinner.CarbsG)
	require.Equal(t, 200, monday.Snacks.Calories)
}

func TestVeganDietHasNoForbiddenFoods(t *testing.T) {
	p := domain.Profile{DietaryRestrictions: []string{"vegan", "gluten-free"}}
	set := restrictions.Expand(p.DietaryRestrictions)

	doc := Diet(p, targets())
	for day, menu := range doc.MealPlan {
		for _, slot := range domain.MealSlots {
			meal, _ := menu.Slot(slot)
			require.NotEmpty(t, meal.Foods, "%s/%s", day, slot)
			for _, food := range meal.Foods {
				require.Empty(t, set.Violations(food), "%s/%s: %s", day, slot, food)
			}
		}
	}
	require.Contains(t, doc.Description, "vegan")
}

func TestLactoseIntolerantKeepsLactoseFreeDairy(t *testing.T) {
	doc := Diet(domain.Profile{DietaryRestrictions: []string{"lactose-intolerant"}}, targets())
	require.Contains(t, doc.MealPlan["monday"].Snacks.Foods, "lactose-free yogurt")
	require.Contains(t, doc.MealPlan["monday"].Breakfast.Foods, "lactose-free milk")
}

func TestDislikedFoodsAreAvoided(t *testing.T) {
	doc := Diet(domain.Profile{DislikedFoods: []string{"broccoli"}}, targets())
	require.NotContains(t, doc.MealPlan["monday"].Dinner.Foods, "steamed broccoli")
}

func TestWorkoutTruncatesAndEstimates(t *testing.T) {
	doc := Workout(WorkoutInput{
		Level:            domain.LevelIntermediate,
		WorkoutType:      "musculacao",
		AvailableMinutes: 45,
		Phase:            domain.PhaseDescriptor{Tag: domain.PhaseFollicular, Multiplier: 1},
	})

	session := doc.WorkoutPlan
	require.Len(t, session.Main, 5)
	require.Equal(t, 225, session.EstimatedCalories)
	require.Equal(t, domain.PhaseFollicular, session.Phase)
	for _, ex := range session.Main {
		require.Equal(t, 3, ex.Sets)
		require.Equal(t, "10-12", ex.Reps)
		require.Equal(t, 75, ex.RestSeconds)
		require.Positive(t, ex.Calories)
	}
}

func TestWorkoutScalesSetsByPhase(t *testing.T) {
	doc := Workout(WorkoutInput{
		Level:            domain.LevelBeginner,
		AvailableMinutes: 30,
		Phase:            domain.PhaseDescriptor{Tag: domain.PhaseMenstrualBleed, Multiplier: 0.5, Tips: []string{"rest"}},
	})

	for _, ex := range doc.WorkoutPlan.Main {
		require.Equal(t, 1, ex.Sets)
		require.NotEmpty(t, ex.Notes)
	}
	require.Equal(t, []string{"rest"}, doc.WorkoutPlan.Tips)
}

func TestWorkoutFallsBackToStrengthTemplate(t *testing.T) {
	doc := Workout(WorkoutInput{Level: domain.LevelAdvanced, WorkoutType: "danca", AvailableMinutes: 200})

	require.Equal(t, catalog.TypeDance, doc.WorkoutPlan.Type)
	require.Equal(t, "Barbell Back Squat", doc.WorkoutPlan.Main[0].Name)
	require.Len(t, doc.WorkoutPlan.Main, 10)
	require.Equal(t, 1000, doc.WorkoutPlan.EstimatedCalories)
}

func TestWorkoutDefaultsMissingMinutes(t *testing.T) {
	doc := Workout(WorkoutInput{})
	require.Equal(t, 45, doc.WorkoutPlan.DurationMinutes)
	require.Equal(t, string(domain.LevelBeginner), doc.WorkoutPlan.Level)
}

func TestEveryTemplateUsesItsAllowList(t *testing.T) {
	for workoutType, byLevel := range templates {
		for level, tpl := range byLevel {
			for _, name := range tpl.main {
				require.True(t, catalog.Allowed(level, name), "%s/%s main %s", workoutType, level, name)
			}
			for _, item := range append(append([]timed(nil), tpl.warmup...), tpl.cooldown...) {
				require.True(t, catalog.Allowed(level, item.name), "%s/%s %s", workoutType, level, item.name)
			}
		}
	}
}

func TestWorkoutIsDeterministic(t *testing.T) {
	in := WorkoutInput{Level: domain.LevelAdvanced, WorkoutType: "funcional", AvailableMinutes: 50}
	a, err := json.Marshal(Workout(in))
	require.NoError(t, err)
	b, err := json.Marshal(Workout(in))
	require.NoError(t, err)
	require.Equal(t, a, b)
}
