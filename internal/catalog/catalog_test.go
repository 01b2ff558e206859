package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/domain"
)

func TestPolicies(t *testing.T) {
	require.Equal(t, Policy{Sets: 2, Reps: "12-15", RestSeconds: 60}, PolicyFor(domain.LevelBeginner))
	require.Equal(t, Policy{Sets: 3, Reps: "10-12", RestSeconds: 75}, PolicyFor("intermediario"))
	require.Equal(t, Policy{Sets: 4, Reps: "8-10", RestSeconds: 90}, PolicyFor(domain.LevelAdvanced))
	require.Equal(t, PolicyFor(domain.LevelBeginner), PolicyFor("unknown"))
}

func TestAllowedIsLevelScoped(t *testing.T) {
	require.True(t, Allowed(domain.LevelBeginner, "bodyweight squat"))
	require.True(t, Allowed(domain.LevelBeginner, "Jumping Jacks (60s)"))
	require.False(t, Allowed(domain.LevelBeginner, "Barbell Back Squat"))
	require.False(t, Allowed(domain.LevelIntermediate, "Pistol Squat"))
	require.True(t, Allowed(domain.LevelAdvanced, "PISTOL SQUAT"))
	require.True(t, Allowed(domain.LevelAdvanced, "Glute Bridge"))
	require.False(t, Allowed(domain.LevelAdvanced, "Handstand Walk"))
	require.False(t, Allowed(domain.LevelAdvanced, "  "))
}

func TestAllowedAttributesNameToMostSpecificMovement(t *testing.T) {
	cases := []struct {
		level domain.FitnessLevel
		name  string
		want  bool
	}{
		{domain.LevelBeginner, "Knee Push-ups", true},
		{domain.LevelBeginner, "Push-up", false},
		{domain.LevelBeginner, "Bicycle Crunch", false},
		{domain.LevelBeginner, "Side Plank", false},
		{domain.LevelBeginner, "Plank to Barbell Snatch", false},
		{domain.LevelBeginner, "Crunch with Box Jump", false},
		{domain.LevelBeginner, "Plank hold 30 seconds", true},
		{domain.LevelBeginner, "Reverse Lunges, alternating legs", true},
		{domain.LevelBeginner, "Child's Pose", true},
		{domain.LevelIntermediate, "Romanian Deadlift", true},
		{domain.LevelIntermediate, "Deadlift", false},
		{domain.LevelIntermediate, "Side Plank (30s each side)", true},
		{domain.LevelIntermediate, "Weighted Side Plank", false},
		{domain.LevelAdvanced, "Push-up", true},
		{domain.LevelAdvanced, "Clean and Press", true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Allowed(tc.level, tc.name), "%s %q", tc.level, tc.name)
	}
}

func TestExerciseRange(t *testing.T) {
	cases := []struct {
		minutes int
		lo, hi  int
	}{
		{20, 5, 6},
		{30, 5, 6},
		{31, 7, 8},
		{45, 7, 8},
		{60, 8, 10},
	}
	for _, tc := range cases {
		lo, hi := ExerciseRange(tc.minutes)
		require.Equal(t, tc.lo, lo, "minutes %d", tc.minutes)
		require.Equal(t, tc.hi, hi, "minutes %d", tc.minutes)
	}
}

func TestNormalizeType(t *testing.T) {
	require.Equal(t, TypeDance, NormalizeType("Dança"))
	require.Equal(t, TypeHome, NormalizeType("home"))
	require.Equal(t, TypeStrength, NormalizeType(""))
	require.Equal(t, TypeStrength, NormalizeType("yoga"))
}
