// Package nutrition computes daily nutrition targets from a profile.
package nutrition

import (
	"math"

	"example.com/wellplan/internal/domain"
)

const (
	goalAdjustmentKcal = 300
	proteinPerKg       = 1.6
	fatCalorieShare    = 0.25
	waterMlPerKg       = 35
	defaultMultiplier  = 1.375
)

var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

var waterBonusLiters = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  0,
	domain.ActivityLight:      0.25,
	domain.ActivityModerate:   0.5,
	domain.ActivityActive:     0.75,
	domain.ActivityVeryActive: 1.0,
}

// ActivityMultiplier returns the TDEE multiplier for a tier, defaulting to the light tier.
func ActivityMultiplier(level domain.ActivityLevel) float64 {
	if mult, ok := activityMultipliers[domain.NormalizeActivity(level)]; ok {
		return mult
	}
	return defaultMultiplier
}

// BMR returns the Mifflin-St Jeor basal metabolic rate.
func BMR(p domain.Profile) float64 {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.IsMale() {
		return base + 5
	}
	return base - 161
}

// Compute derives nutrition targets from the profile. It performs no I/O.
// Missing weight, height or age is reported as domain.ErrMissingProfileField.
func Compute(p domain.Profile) (domain.NutritionTargets, error) {
	if err := p.ValidatePhysiology(); err != nil {
		return domain.NutritionTargets{}, err
	}

	level := domain.NormalizeActivity(p.ActivityLevel)
	calories := int(math.Round(BMR(p) * ActivityMultiplier(level)))
	switch {
	case p.HasGoal(domain.GoalLoseWeight):
		calories -= goalAdjustmentKcal
	case p.HasGoal(domain.GoalGainMuscle):
		calories += goalAdjustmentKcal
	}
	calories = ClampCalories(calories)

	protein, carbs, fats := splitMacros(calories, p.WeightKg)

	heightM := p.HeightCm / 100
	bmi := p.WeightKg / (heightM * heightM)
	bodyFat := round1(1.2*bmi + 0.23*float64(p.Age) - 5.4)

	return domain.NutritionTargets{
		IdealWeightKg:  round1(49 + 1.7*(p.HeightCm-152.4)/2.54),
		DailyCalories:  calories,
		ProteinG:       protein,
		CarbsG:         carbs,
		FatsG:          fats,
		BMI:            round1(bmi),
		BodyFatPercent: &bodyFat,
		WaterGoalL:     round1(p.WeightKg*waterMlPerKg/1000 + waterBonusLiters[level]),
	}, nil
}

// ClampCalories enforces the safety floor.
func ClampCalories(calories int) int {
	if calories < domain.MinDailyCalories {
		return domain.MinDailyCalories
	}
	return calories
}

// splitMacros allocates protein by body weight, a fixed fat share, and carbs as the remainder.
// Protein is capped so the remainder never goes negative.
func splitMacros(calories int, weightKg float64) (protein, carbs, fats int) {
	kcal := float64(calories)
	fatKcal := kcal * fatCalorieShare
	proteinKcal := math.Min(weightKg*proteinPerKg*4, kcal-fatKcal)

	protein = int(math.Round(proteinKcal / 4))
	fats = int(math.Round(fatKcal / 9))
	carbs = int(math.Round((kcal - proteinKcal - fatKcal) / 4))
	return protein, carbs, fats
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
