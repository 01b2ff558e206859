// Package fallback synthesizes deterministic diet and workout plans used when
// generation is skipped or fails. Every function here is pure.
package fallback

import (
	"fmt"
	"math"
	"strings"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/restrictions"
)

type share struct {
	calories, protein, carbs, fats float64
}

var mealShares = map[string]share{
	"breakfast": {calories: 0.30, protein: 0.30, carbs: 0.30, fats: 0.30},
	"lunch":     {calories: 0.30, protein: 0.30, carbs: 0.33, fats: 0.30},
	"dinner":    {calories: 0.30, protein: 0.30, carbs: 0.27, fats: 0.30},
	"snacks":    {calories: 0.10, protein: 0.10, carbs: 0.10, fats: 0.10},
}

// Diet builds the weekly template plan for the targets, substituting or dropping
// foods the profile's dietary restrictions forbid and avoiding disliked foods.
func Diet(p domain.Profile, t domain.NutritionTargets) domain.DietDocument {
	set := restrictions.Expand(p.DietaryRestrictions)
	dislikes := normalizedDislikes(p.DislikedFoods)

	plan := make(map[string]domain.DayMenu, len(domain.Weekdays))
	for i, day := range domain.Weekdays {
		m := weeklyMenus[i]
		plan[day] = domain.DayMenu{
			Breakfast: buildMeal("breakfast", m.breakfast, t, set, dislikes),
			Lunch:     buildMeal("lunch", m.lunch, t, set, dislikes),
			Dinner:    buildMeal("dinner", m.dinner, t, set, dislikes),
			Snacks:    buildMeal("snacks", m.snacks, t, set, dislikes),
		}
	}

	description := fmt.Sprintf("Balanced weekly plan targeting %d kcal per day.", t.DailyCalories)
	if tags := set.Tags(); len(tags) > 0 {
		description += " Adapted for: " + strings.Join(tags, ", ") + "."
	}

	return domain.DietDocument{
		Name:          "Weekly meal plan",
		Description:   description,
		DailyCalories: t.DailyCalories,
		Macros: domain.Macros{
			ProteinG: t.ProteinG,
			CarbsG:   t.CarbsG,
			FatsG:    t.FatsG,
		},
		MealPlan: plan,
	}
}

func buildMeal(slot string, m menuMeal, t domain.NutritionTargets, set restrictions.Set, dislikes []string) domain.Meal {
	s := mealShares[slot]
	foods := set.Filter(m.foods)
	if liked := withoutDisliked(foods, dislikes); len(liked) > 0 {
		foods = liked
	}
	return domain.Meal{
		Name:     m.name,
		Foods:    foods,
		Calories: portion(t.DailyCalories, s.calories),
		ProteinG: portion(t.ProteinG, s.protein),
		CarbsG:   portion(t.CarbsG, s.carbs),
		FatsG:    portion(t.FatsG, s.fats),
	}
}

func portion(total int, fraction float64) int {
	return int(math.Round(float64(total) * fraction))
}

func normalizedDislikes(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, d := range raw {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func withoutDisliked(foods, dislikes []string) []string {
	if len(dislikes) == 0 {
		return foods
	}
	out := make([]string, 0, len(foods))
	for _, food := range foods {
		lower := strings.ToLower(food)
		disliked := false
		for _, d := range dislikes {
			if strings.Contains(lower, d) {
				disliked = true
				break
			}
		}
		if !disliked {
			out = append(out, food)
		}
	}
	return out
}
