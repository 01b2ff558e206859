package phase

import (
	"fmt"
	"time"

	"example.com/wellplan/internal/domain"
)

var cycleTips = map[domain.PhaseTag][]string{
	domain.PhaseMenstrualBleed: {
		"Favour walking, yoga and light mobility",
		"Reduce load and volume; listen to cramps and fatigue",
		"Prioritise iron-rich foods and hydration",
	},
	domain.PhaseFollicular: {
		"Energy is rising: a good window for strength progressions",
		"Try new exercises or heavier loads",
	},
	domain.PhaseOvulatory: {
		"Peak strength window: high-intensity work is well tolerated",
		"Warm up thoroughly; joint laxity can be higher",
	},
	domain.PhaseLuteal: {
		"Shift toward moderate-intensity and steady cardio",
		"Expect higher perceived effort; keep rests generous",
		"Manage cravings with protein and fibre-rich snacks",
	},
}

func fromCycle(cycle *domain.CycleInfo, now time.Time) (domain.PhaseDescriptor, error) {
	if cycle == nil || cycle.LastPeriodDate.IsZero() {
		return domain.PhaseDescriptor{}, ErrCycleDataMissing
	}
	length := cycle.CycleLengthDays
	if length <= 0 {
		length = defaultCycleDays
	}
	if now.IsZero() {
		now = time.Now()
	}

	day := DayInCycle(cycle.LastPeriodDate, now, length)

	var (
		tag        domain.PhaseTag
		multiplier float64
	)
	switch {
	case day <= 2:
		tag, multiplier = domain.PhaseMenstrualBleed, 0.5
	case day <= 5:
		tag, multiplier = domain.PhaseMenstrualBleed, 0.6
	case day <= 13:
		tag, multiplier = domain.PhaseFollicular, 1.0
	case day <= 16:
		tag, multiplier = domain.PhaseOvulatory, 1.0
	case day <= 23:
		tag, multiplier = domain.PhaseLuteal, 0.8
	default:
		tag, multiplier = domain.PhaseLuteal, 0.7
	}

	return domain.PhaseDescriptor{
		Tag:        tag,
		Multiplier: multiplier,
		Rationale:  fmt.Sprintf("cycle day %d of %d (%s); intensity at %s", day, length, tag, percent(multiplier)),
		DayInCycle: &day,
		Tips:       append([]string(nil), cycleTips[tag]...),
	}, nil
}

// DayInCycle returns the zero-based day of the cycle containing now.
func DayInCycle(lastPeriod, now time.Time, length int) int {
	start := time.Date(lastPeriod.Year(), lastPeriod.Month(), lastPeriod.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(start).Hours() / 24)
	return ((days % length) + length) % length
}
