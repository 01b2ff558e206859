// Package catalog holds the exercise allow-list and the per-level training policies.
package catalog

import (
	"sort"
	"strings"
	"unicode"

	"example.com/wellplan/internal/domain"
)

// Policy is the set, rep and rest prescription for a fitness level.
type Policy struct {
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
}

var policies = map[domain.FitnessLevel]Policy{
	domain.LevelBeginner:     {Sets: 2, Reps: "12-15", RestSeconds: 60},
	domain.LevelIntermediate: {Sets: 3, Reps: "10-12", RestSeconds: 75},
	domain.LevelAdvanced:     {Sets: 4, Reps: "8-10", RestSeconds: 90},
}

// PolicyFor returns the prescription for level, treating unknown levels as beginner.
func PolicyFor(level domain.FitnessLevel) Policy {
	return policies[domain.NormalizeLevel(level)]
}

// WarmupMovements are allowed at every level.
var WarmupMovements = []string{
	"Jumping Jacks",
	"Arm Circles",
	"March in Place",
	"Hip Circles",
	"Jog in Place",
	"Leg Swings",
}

// CooldownMovements are allowed at every level.
var CooldownMovements = []string{
	"Hamstring Stretch",
	"Quad Stretch",
	"Child's Pose",
	"Chest Stretch",
	"Cat-Cow",
	"Deep Breathing",
}

var beginnerMain = []string{
	"Bodyweight Squat",
	"Knee Push-up",
	"Wall Push-up",
	"Glute Bridge",
	"Dumbbell Row",
	"Dumbbell Shoulder Press",
	"Reverse Lunge",
	"Plank",
	"Crunch",
	"Bird Dog",
	"Dead Bug",
	"Step-up",
	"Lat Pulldown",
	"Leg Press",
	"Bicep Curl",
	"Bench Dip",
	"Mountain Climber",
	"Step Touch",
	"Grapevine",
	"Side Shuffle",
}

var intermediateMain = []string{
	"Goblet Squat",
	"Push-up",
	"Romanian Deadlift",
	"Bulgarian Split Squat",
	"Bent-over Row",
	"Hip Thrust",
	"Side Plank",
	"Bicycle Crunch",
	"Russian Twist",
	"Kettlebell Swing",
	"Jump Squat",
	"Burpee",
	"Walking Lunge",
	"Cha-cha Step",
	"Skater Hop",
}

var advancedMain = []string{
	"Barbell Back Squat",
	"Deadlift",
	"Bench Press",
	"Pull-up",
	"Pistol Squat",
	"Box Jump",
	"Clean and Press",
	"Hanging Leg Raise",
	"Thruster",
	"Tuck Jump",
}

// MainMovements returns the main-block movements allowed for level.
// Each level includes the movements of the levels below it.
func MainMovements(level domain.FitnessLevel) []string {
	var out []string
	switch domain.NormalizeLevel(level) {
	case domain.LevelAdvanced:
		out = append(out, advancedMain...)
		fallthrough
	case domain.LevelIntermediate:
		out = append(out, intermediateMain...)
		fallthrough
	default:
		out = append(out, beginnerMain...)
	}
	return out
}

// AllowList returns every exercise name a plan for level may contain.
func AllowList(level domain.FitnessLevel) []string {
	out := MainMovements(level)
	out = append(out, WarmupMovements...)
	return append(out, CooldownMovements...)
}

type entry struct {
	words []string
	rank  int
}

// entries is every movement across all levels, longest first, so a name is
// attributed to its most specific movement ("Knee Push-up" before "Push-up").
var entries = buildEntries()

func buildEntries() []entry {
	var out []entry
	add := func(names []string, rank int) {
		for _, name := range names {
			out = append(out, entry{words: words(name), rank: rank})
		}
	}
	add(WarmupMovements, 0)
	add(CooldownMovements, 0)
	add(beginnerMain, 0)
	add(intermediateMain, 1)
	add(advancedMain, 2)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].words) > len(out[j].words)
	})
	return out
}

// modifiers may accompany a movement name without changing the movement.
var modifiers = map[string]bool{
	"s": true, "sec": true, "secs": true, "second": true, "seconds": true,
	"min": true, "mins": true, "minute": true, "minutes": true,
	"rep": true, "reps": true, "set": true, "sets": true, "round": true, "rounds": true,
	"each": true, "side": true, "sides": true, "per": true, "x": true, "hold": true,
	"alternating": true, "alternate": true, "slow": true, "tempo": true, "light": true, "easy": true,
	"left": true, "right": true, "leg": true, "legs": true, "arm": true, "arms": true,
	"with": true, "and": true, "then": true, "or": true, "the": true, "of": true, "a": true, "on": true,
}

func rank(level domain.FitnessLevel) int {
	switch domain.NormalizeLevel(level) {
	case domain.LevelAdvanced:
		return 2
	case domain.LevelIntermediate:
		return 1
	default:
		return 0
	}
}

// Allowed reports whether name is an allow-listed exercise for level, compared
// case-insensitively. Every movement named must be within the level, and any
// other word must be a plain modifier such as a duration or side.
func Allowed(level domain.FitnessLevel, name string) bool {
	tokens := words(name)
	if len(tokens) == 0 {
		return false
	}
	limit := rank(level)
	used := make([]bool, len(tokens))
	matched := false
	for _, e := range entries {
		for i := 0; i+len(e.words) <= len(tokens); i++ {
			if !matchAt(tokens, used, i, e.words) {
				continue
			}
			if e.rank > limit {
				return false
			}
			matched = true
			for j := range e.words {
				used[i+j] = true
			}
		}
	}
	if !matched {
		return false
	}
	for i, tok := range tokens {
		if !used[i] && !modifiers[tok] {
			return false
		}
	}
	return true
}

func matchAt(tokens []string, used []bool, at int, want []string) bool {
	for j, w := range want {
		tok := tokens[at+j]
		if used[at+j] || (tok != w && tok != w+"s" && tok != w+"es") {
			return false
		}
	}
	return true
}

// words lowercases s and splits it on anything that is not a letter, so
// "Push-ups (30s)" becomes push, ups, s.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// ExerciseRange returns the inclusive main-exercise count for the available minutes.
func ExerciseRange(minutes int) (lo, hi int) {
	switch {
	case minutes <= 30:
		return 5, 6
	case minutes <= 45:
		return 7, 8
	default:
		return 8, 10
	}
}
