package phase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/domain"
)

var now = time.Date(2024, time.March, 20, 9, 30, 0, 0, time.UTC)

func cycleProfile(daysAgo int) domain.Profile {
	return domain.Profile{
		UserID:    "user-1",
		LifeStage: domain.LifeStageMenstrual,
		Cycle: &domain.CycleInfo{
			LastPeriodDate:  now.AddDate(0, 0, -daysAgo),
			CycleLengthDays: 28,
		},
	}
}

func TestCycleBuckets(t *testing.T) {
	cases := []struct {
		daysAgo    int
		tag        domain.PhaseTag
		multiplier float64
	}{
		{0, domain.PhaseMenstrualBleed, 0.5},
		{4, domain.PhaseMenstrualBleed, 0.6},
		{6, domain.PhaseFollicular, 1.0},
		{13, domain.PhaseFollicular, 1.0},
		{15, domain.PhaseOvulatory, 1.0},
		{20, domain.PhaseLuteal, 0.8},
		{27, domain.PhaseLuteal, 0.7},
		{30, domain.PhaseMenstrualBleed, 0.5},
	}
	for _, tc := range cases {
		got, err := Advise(cycleProfile(tc.daysAgo), Input{Now: now})
		require.NoError(t, err)
		require.Equal(t, tc.tag, got.Tag, "days ago %d", tc.daysAgo)
		require.Equal(t, tc.multiplier, got.Multiplier, "days ago %d", tc.daysAgo)
		require.NotNil(t, got.DayInCycle)
		require.Equal(t, tc.daysAgo%28, *got.DayInCycle)
		require.NotEmpty(t, got.Tips)
	}
}

func TestCycleDefaultsLengthAndHandlesFutureDates(t *testing.T) {
	p := cycleProfile(0)
	p.Cycle.CycleLengthDays = 0
	p.Cycle.LastPeriodDate = now.AddDate(0, 0, 3)

	got, err := Advise(p, Input{Now: now})
	require.NoError(t, err)
	require.Equal(t, 25, *got.DayInCycle)
	require.Equal(t, domain.PhaseLuteal, got.Tag)
}

func TestCycleRequiresLastPeriod(t *testing.T) {
	p := domain.Profile{LifeStage: domain.LifeStageMenstrual}
	_, err := Advise(p, Input{Now: now})
	require.True(t, errors.Is(err, ErrCycleDataMissing))
}

func TestDailyFeedbackOverridesCycle(t *testing.T) {
	for days := 0; days < 28; days++ {
		p := cycleProfile(days)
		p.UsesDailyFeedback = true
		got, err := Advise(p, Input{Now: now, Report: &domain.DailyReport{PhysicalFeeling: "good", Energy: 4}})
		require.NoError(t, err)
		require.Equal(t, domain.PhaseDailyFeedbackOverride, got.Tag)
		require.False(t, got.Tag.IsCycle())
		require.Nil(t, got.DayInCycle)
	}
}

func TestDailyFeedbackWithoutCycleData(t *testing.T) {
	p := domain.Profile{LifeStage: domain.LifeStageMenstrual, UsesDailyFeedback: true}

	got, err := Advise(p, Input{Now: now})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseDailyFeedbackOverride, got.Tag)
	require.Equal(t, 0.8, got.Multiplier)
}

func TestDailyReportMapping(t *testing.T) {
	cases := []struct {
		name   string
		report domain.DailyReport
		want   float64
	}{
		{"great", domain.DailyReport{PhysicalFeeling: "great", Energy: 5, SleepQuality: 5, StressLevel: 1}, 1.0},
		{"good portuguese", domain.DailyReport{PhysicalFeeling: "Bem", Energy: 3}, 1.0},
		{"tired", domain.DailyReport{PhysicalFeeling: "tired", Energy: 3, SleepQuality: 3}, 0.7},
		{"tired and stressed", domain.DailyReport{PhysicalFeeling: "cansada", StressLevel: 5}, 0.6},
		{"pain floors at half", domain.DailyReport{PhysicalFeeling: "pain", StressLevel: 5, SleepQuality: 1, Energy: 1}, 0.5},
		{"unknown feeling", domain.DailyReport{PhysicalFeeling: "meh"}, 0.85},
		{"good but poor sleep", domain.DailyReport{PhysicalFeeling: "good", SleepQuality: 2}, 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := domain.Profile{UsesDailyFeedback: true}
			report := tc.report
			got, err := Advise(p, Input{Now: now, Report: &report})
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Multiplier)
			require.GreaterOrEqual(t, got.Multiplier, 0.5)
			require.LessOrEqual(t, got.Multiplier, 1.0)
			require.NotEmpty(t, got.Rationale)
		})
	}
}

func TestMenopauseSymptomsCombine(t *testing.T) {
	p := domain.Profile{
		LifeStage: domain.LifeStageMenopause,
		Symptoms: []domain.Symptom{
			{Name: "fatigue", Severity: 5},
			{Name: "joint pain", Severity: 5},
			{Name: "hot_flashes", Severity: 5},
		},
	}

	got, err := Advise(p, Input{Now: now})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseMenopauseSymptomatic, got.Tag)
	require.Equal(t, 0.7, got.Multiplier)
	require.Contains(t, got.Tips, "Prefer shorter sessions split across the week")
	require.Contains(t, got.Tips, "Swap jumps and impact for low-impact alternatives")
	require.Contains(t, got.Tips, "Train in a cool, ventilated space")
}

func TestMenopauseSeverityScales(t *testing.T) {
	mild := domain.Profile{LifeStage: domain.LifeStagePerimenopause, Symptoms: []domain.Symptom{{Name: "fadiga", Severity: 1}}}
	severe := domain.Profile{LifeStage: domain.LifeStagePerimenopause, Symptoms: []domain.Symptom{{Name: "fadiga", Severity: 5}}}

	a, err := Advise(mild, Input{Now: now})
	require.NoError(t, err)
	b, err := Advise(severe, Input{Now: now})
	require.NoError(t, err)
	require.Greater(t, a.Multiplier, b.Multiplier)
}

func TestMenopauseWithoutActiveSymptoms(t *testing.T) {
	p := domain.Profile{
		LifeStage: domain.LifeStagePostmenopause,
		Symptoms:  []domain.Symptom{{Name: "fatigue", Severity: 0}, {Name: "unknown", Severity: 4}},
	}

	got, err := Advise(p, Input{Now: now})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseMenopauseNeutral, got.Tag)
	require.Equal(t, 1.0, got.Multiplier)
}

func TestProfileWithoutLifeStageIsNeutral(t *testing.T) {
	p := domain.Profile{
		UserID:   "user-3",
		Symptoms: []domain.Symptom{{Name: "hot-flashes", Severity: 3}},
	}

	got, err := Advise(p, Input{Now: now})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseNeutral, got.Tag)
	require.Equal(t, 1.0, got.Multiplier)
	require.False(t, got.Tag.IsCycle())
	require.NotEmpty(t, got.Rationale)
}
