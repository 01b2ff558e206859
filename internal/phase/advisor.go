// Package phase maps cycle, menopause or daily self-report state to a workout intensity descriptor.
package phase

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"example.com/wellplan/internal/domain"
)

const (
	minMultiplier     = 0.5
	maxMultiplier     = 1.0
	defaultCycleDays  = 28
	noReportIntensity = 0.8
)

// ErrCycleDataMissing indicates a menstrual profile without a last period date.
var ErrCycleDataMissing = errors.New("menstrual life stage requires a last period date")

// Input carries the time-varying state used to compute a phase.
type Input struct {
	Now    time.Time
	Report *domain.DailyReport
}

// Advise returns exactly one descriptor for the profile.
//
// Daily self-report mode always wins: when the profile uses daily feedback the
// cycle and menopause inputs are never read.
func Advise(p domain.Profile, in Input) (domain.PhaseDescriptor, error) {
	if p.UsesDailyFeedback {
		return fromDailyReport(in.Report), nil
	}
	if p.LifeStage == domain.LifeStageMenstrual || (p.LifeStage == "" && p.Cycle != nil) {
		return fromCycle(p.Cycle, in.Now)
	}
	switch p.LifeStage {
	case domain.LifeStagePerimenopause, domain.LifeStageMenopause, domain.LifeStagePostmenopause:
		return fromSymptoms(p.Symptoms), nil
	}
	return neutral(), nil
}

func neutral() domain.PhaseDescriptor {
	return domain.PhaseDescriptor{
		Tag:        domain.PhaseNeutral,
		Multiplier: maxMultiplier,
		Rationale:  "No cycle or menopause information on the profile; training at full intensity.",
	}
}

func clampMultiplier(value float64) float64 {
	value = math.Max(minMultiplier, math.Min(maxMultiplier, value))
	return math.Round(value*100) / 100
}

func normalizeKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "_", "-")
	return strings.ReplaceAll(value, " ", "-")
}

func percent(multiplier float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(multiplier*100)))
}
