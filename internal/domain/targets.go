package domain

import "math"

// MinDailyCalories is the hard safety floor for every calorie target.
const MinDailyCalories = 1200

// NutritionTargets holds the daily nutrition goals derived from a profile.
type NutritionTargets struct {
	IdealWeightKg  float64  `json:"ideal_weight_kg"`
	DailyCalories  int      `json:"daily_calories"`
	ProteinG       int      `json:"protein_g"`
	CarbsG         int      `json:"carbs_g"`
	FatsG          int      `json:"fats_g"`
	BMI            float64  `json:"bmi"`
	BodyFatPercent *float64 `json:"body_fat_percent,omitempty"`
	WaterGoalL     float64  `json:"water_goal_l"`
}

// MacroCalories returns the energy implied by the gram targets.
func (t NutritionTargets) MacroCalories() int {
	return t.ProteinG*4 + t.CarbsG*4 + t.FatsG*9
}

// MacroDeviation returns the relative gap between macro energy and DailyCalories.
func (t NutritionTargets) MacroDeviation() float64 {
	if t.DailyCalories <= 0 {
		return math.Inf(1)
	}
	return math.Abs(float64(t.MacroCalories()-t.DailyCalories)) / float64(t.DailyCalories)
}
