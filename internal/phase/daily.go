package phase

import (
	"strings"

	"example.com/wellplan/internal/domain"
)

type feeling struct {
	label      string
	multiplier float64
	tips       []string
}

var (
	feelingPain = feeling{
		label:      "in pain",
		multiplier: 0.5,
		tips: []string{
			"Keep today to mobility and gentle stretching",
			"Stop any movement that increases the pain",
		},
	}
	feelingTired = feeling{
		label:      "tired",
		multiplier: 0.7,
		tips: []string{
			"Cut one set from each exercise",
			"Take longer rests between sets",
		},
	}
	feelingNormal = feeling{
		label:      "normal",
		multiplier: 0.85,
		tips:       []string{"Train at a comfortable, steady pace"},
	}
	feelingGood = feeling{
		label:      "good",
		multiplier: 1.0,
		tips:       []string{"Follow the plan as written"},
	}
	feelingGreat = feeling{
		label:      "great",
		multiplier: 1.0,
		tips:       []string{"Good day to push the last set a little harder"},
	}
)

var feelings = map[string]feeling{
	"pain":      feelingPain,
	"dor":       feelingPain,
	"com-dor":   feelingPain,
	"tired":     feelingTired,
	"cansada":   feelingTired,
	"cansado":   feelingTired,
	"normal":    feelingNormal,
	"ok":        feelingNormal,
	"good":      feelingGood,
	"bem":       feelingGood,
	"great":     feelingGreat,
	"otima":     feelingGreat,
	"otimo":     feelingGreat,
	"excelente": feelingGreat,
}

func fromDailyReport(report *domain.DailyReport) domain.PhaseDescriptor {
	if report == nil {
		return domain.PhaseDescriptor{
			Tag:        domain.PhaseDailyFeedbackOverride,
			Multiplier: noReportIntensity,
			Rationale:  "no check-in today; training at a moderate " + percent(noReportIntensity),
			Tips:       []string{"Log how you feel to tailor today's session"},
		}
	}

	f, ok := feelings[normalizeKey(report.PhysicalFeeling)]
	if !ok {
		f = feelingNormal
	}

	multiplier := f.multiplier
	reasons := []string{"feeling " + f.label}
	tips := append([]string(nil), f.tips...)

	if report.StressLevel >= 4 {
		multiplier -= 0.1
		reasons = append(reasons, "high stress")
		tips = append(tips, "Finish with five minutes of slow breathing")
	}
	if report.SleepQuality > 0 && report.SleepQuality <= 2 {
		multiplier -= 0.1
		reasons = append(reasons, "poor sleep")
		tips = append(tips, "Skip maximal efforts after a short night")
	}
	if report.Energy > 0 && report.Energy <= 2 {
		multiplier -= 0.1
		reasons = append(reasons, "low energy")
	}

	multiplier = clampMultiplier(multiplier)
	return domain.PhaseDescriptor{
		Tag:        domain.PhaseDailyFeedbackOverride,
		Multiplier: multiplier,
		Rationale:  strings.Join(reasons, ", ") + "; intensity at " + percent(multiplier),
		Tips:       tips,
	}
}
