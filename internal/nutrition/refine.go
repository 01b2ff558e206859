package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/genai"
	"example.com/wellplan/internal/observability"
)

const refineShape = `{"daily_calories": int, "protein": int, "carbs": int, "fats": int, "water_goal": number}`

// Refiner asks the generative service to adjust deterministic targets.
type Refiner struct {
	client genai.Completer
	logger *log.Logger
}

// NewRefiner constructs a Refiner. A nil client makes Refine a no-op.
func NewRefiner(client genai.Completer, logger *log.Logger) *Refiner {
	if logger == nil {
		logger = log.New(log.Writer(), "[nutrition] ", log.LstdFlags)
	}
	return &Refiner{client: client, logger: logger}
}

type refinement struct {
	DailyCalories *int     `json:"daily_calories"`
	ProteinG      *int     `json:"protein"`
	CarbsG        *int     `json:"carbs"`
	FatsG         *int     `json:"fats"`
	WaterGoalL    *float64 `json:"water_goal"`
}

// Refine overwrites only the numeric fields the service returns. Any failure, or a
// refinement that breaks the calorie floor or the macro balance, keeps the input targets.
func (r *Refiner) Refine(ctx context.Context, p domain.Profile, targets domain.NutritionTargets) domain.NutritionTargets {
	if r == nil || r.client == nil {
		return targets
	}

	raw, err := r.client.Complete(ctx, genai.Request{
		Messages: []genai.Message{
			{Role: "system", Content: "You are a registered dietitian adjusting daily nutrition targets."},
			{Role: "user", Content: refinePrompt(p, targets)},
		},
		Shape:       refineShape,
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		r.logger.Printf("target refinement skipped (user=%s): %v", p.UserID, err)
		observability.RecordRefinement("skipped")
		return targets
	}

	var adj refinement
	if err := json.Unmarshal(raw, &adj); err != nil {
		r.logger.Printf("target refinement malformed (user=%s): %v", p.UserID, err)
		observability.RecordRefinement("skipped")
		return targets
	}

	refined := targets
	if adj.DailyCalories != nil && *adj.DailyCalories > 0 {
		refined.DailyCalories = *adj.DailyCalories
	}
	if adj.ProteinG != nil && *adj.ProteinG > 0 {
		refined.ProteinG = *adj.ProteinG
	}
	if adj.CarbsG != nil && *adj.CarbsG >= 0 {
		refined.CarbsG = *adj.CarbsG
	}
	if adj.FatsG != nil && *adj.FatsG > 0 {
		refined.FatsG = *adj.FatsG
	}
	if adj.WaterGoalL != nil && *adj.WaterGoalL > 0 {
		refined.WaterGoalL = round1(*adj.WaterGoalL)
	}

	if refined.DailyCalories < domain.MinDailyCalories {
		r.logger.Printf("target refinement rejected (user=%s): %d kcal below floor", p.UserID, refined.DailyCalories)
		observability.RecordRefinement("rejected")
		return targets
	}
	if refined.MacroDeviation() > 0.05 {
		r.logger.Printf("target refinement rejected (user=%s): macros deviate %.1f%% from calories", p.UserID, refined.MacroDeviation()*100)
		observability.RecordRefinement("rejected")
		return targets
	}
	observability.RecordRefinement("applied")
	return refined
}

func refinePrompt(p domain.Profile, t domain.NutritionTargets) string {
	var sb strings.Builder
	sb.WriteString("Review these daily targets and adjust them only if the profile warrants it.\n\n")
	sb.WriteString("PROFILE:\n")
	sb.WriteString(fmt.Sprintf("- weight: %.1f kg, height: %.0f cm, age: %d\n", p.WeightKg, p.HeightCm, p.Age))
	sb.WriteString(fmt.Sprintf("- activity: %s\n", domain.NormalizeActivity(p.ActivityLevel)))
	if len(p.Goals) > 0 {
		goals := make([]string, 0, len(p.Goals))
		for _, g := range p.Goals {
			goals = append(goals, string(domain.NormalizeGoal(g)))
		}
		sb.WriteString(fmt.Sprintf("- goals: %s\n", strings.Join(goals, ", ")))
	}
	if len(p.DietaryRestrictions) > 0 {
		sb.WriteString(fmt.Sprintf("- dietary restrictions: %s\n", strings.Join(p.DietaryRestrictions, ", ")))
	}
	sb.WriteString("\nCURRENT TARGETS:\n")
	sb.WriteString(fmt.Sprintf("- daily_calories: %d\n- protein: %d g\n- carbs: %d g\n- fats: %d g\n- water_goal: %.1f L\n",
		t.DailyCalories, t.ProteinG, t.CarbsG, t.FatsG, t.WaterGoalL))
	sb.WriteString(fmt.Sprintf("\nNever go below %d kcal. protein*4 + carbs*4 + fats*9 must match daily_calories.\n", domain.MinDailyCalories))
	return sb.String()
}
