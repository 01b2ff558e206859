package fallback

import (
	"example.com/wellplan/internal/catalog"
	"example.com/wellplan/internal/domain"
)

type timed struct {
	name    string
	seconds int
}

type template struct {
	label    string
	warmup   []timed
	main     []string
	cooldown []timed
}

var (
	standardWarmup = []timed{{"Jumping Jacks", 60}, {"Arm Circles", 45}, {"Hip Circles", 45}, {"Leg Swings", 45}}
	gentleWarmup   = []timed{{"March in Place", 90}, {"Arm Circles", 45}, {"Hip Circles", 45}}
	standardCool   = []timed{{"Hamstring Stretch", 45}, {"Quad Stretch", 45}, {"Chest Stretch", 30}, {"Deep Breathing", 60}}
	floorCool      = []timed{{"Cat-Cow", 60}, {"Child's Pose", 60}, {"Deep Breathing", 60}}
)

// templates is keyed by workout type then fitness level. Missing combinations
// resolve through templateFor.
var templates = map[string]map[domain.FitnessLevel]template{
	catalog.TypeStrength: {
		domain.LevelBeginner: {
			label:  "Gym strength",
			warmup: standardWarmup,
			main: []string{
				"Leg Press", "Dumbbell Row", "Dumbbell Shoulder Press", "Lat Pulldown", "Bodyweight Squat",
				"Glute Bridge", "Bicep Curl", "Bench Dip", "Plank", "Crunch",
			},
			cooldown: standardCool,
		},
		domain.LevelIntermediate: {
			label:  "Gym strength",
			warmup: standardWarmup,
			main: []string{
				"Goblet Squat", "Bent-over Row", "Push-up", "Romanian Deadlift", "Bulgarian Split Squat",
				"Hip Thrust", "Lat Pulldown", "Dumbbell Shoulder Press", "Side Plank", "Bicycle Crunch",
			},
			cooldown: standardCool,
		},
		domain.LevelAdvanced: {
			label:  "Gym strength",
			warmup: standardWarmup,
			main: []string{
				"Barbell Back Squat", "Bench Press", "Deadlift", "Pull-up", "Clean and Press",
				"Bulgarian Split Squat", "Hip Thrust", "Thruster", "Hanging Leg Raise", "Side Plank",
			},
			cooldown: standardCool,
		},
	},
	catalog.TypeHome: {
		domain.LevelBeginner: {
			label:  "Home bodyweight",
			warmup: gentleWarmup,
			main: []string{
				"Bodyweight Squat", "Knee Push-up", "Glute Bridge", "Reverse Lunge", "Step-up",
				"Bench Dip", "Bird Dog", "Plank", "Dead Bug", "Mountain Climber",
			},
			cooldown: floorCool,
		},
		domain.LevelIntermediate: {
			label:  "Home bodyweight",
			warmup: standardWarmup,
			main: []string{
				"Jump Squat", "Push-up", "Walking Lunge", "Hip Thrust", "Burpee",
				"Bulgarian Split Squat", "Side Plank", "Mountain Climber", "Russian Twist", "Bicycle Crunch",
			},
			cooldown: floorCool,
		},
		domain.LevelAdvanced: {
			label:  "Home bodyweight",
			warmup: standardWarmup,
			main: []string{
				"Pistol Squat", "Tuck Jump", "Push-up", "Burpee", "Bulgarian Split Squat",
				"Skater Hop", "Hip Thrust", "Side Plank", "Mountain Climber", "Russian Twist",
			},
			cooldown: floorCool,
		},
	},
	catalog.TypeCore: {
		domain.LevelBeginner: {
			label:    "Core",
			warmup:   gentleWarmup,
			main:     []string{"Crunch", "Plank", "Dead Bug", "Bird Dog", "Glute Bridge", "Mountain Climber"},
			cooldown: floorCool,
		},
		domain.LevelIntermediate: {
			label:  "Core",
			warmup: gentleWarmup,
			main: []string{
				"Bicycle Crunch", "Side Plank", "Russian Twist", "Plank", "Mountain Climber",
				"Dead Bug", "Crunch", "Bird Dog",
			},
			cooldown: floorCool,
		},
	},
	catalog.TypeFunctional: {
		domain.LevelBeginner: {
			label:  "Functional circuit",
			warmup: standardWarmup,
			main: []string{
				"Step-up", "Bodyweight Squat", "Mountain Climber", "Reverse Lunge", "Dumbbell Row",
				"Plank", "Side Shuffle", "Glute Bridge",
			},
			cooldown: standardCool,
		},
		domain.LevelIntermediate: {
			label:  "Functional circuit",
			warmup: standardWarmup,
			main: []string{
				"Kettlebell Swing", "Burpee", "Goblet Squat", "Walking Lunge", "Skater Hop",
				"Push-up", "Russian Twist", "Jump Squat",
			},
			cooldown: standardCool,
		},
		domain.LevelAdvanced: {
			label:  "Functional circuit",
			warmup: standardWarmup,
			main: []string{
				"Thruster", "Box Jump", "Clean and Press", "Burpee", "Kettlebell Swing",
				"Tuck Jump", "Pull-up", "Hanging Leg Raise",
			},
			cooldown: standardCool,
		},
	},
	catalog.TypeDance: {
		domain.LevelBeginner: {
			label:    "Dance cardio",
			warmup:   gentleWarmup,
			main:     []string{"Step Touch", "Grapevine", "Side Shuffle", "Step Touch", "Grapevine", "Side Shuffle"},
			cooldown: standardCool,
		},
		domain.LevelIntermediate: {
			label:  "Dance cardio",
			warmup: gentleWarmup,
			main: []string{
				"Cha-cha Step", "Skater Hop", "Grapevine", "Step Touch", "Jump Squat",
				"Side Shuffle", "Cha-cha Step", "Skater Hop",
			},
			cooldown: standardCool,
		},
	},
}

// templateFor resolves the requested template, then strength at the same
// level, then beginner strength.
func templateFor(workoutType string, level domain.FitnessLevel) template {
	if byLevel, ok := templates[workoutType]; ok {
		if t, ok := byLevel[level]; ok {
			return t
		}
	}
	if t, ok := templates[catalog.TypeStrength][level]; ok {
		return t
	}
	return templates[catalog.TypeStrength][domain.LevelBeginner]
}

// caloriesPerBlock estimates the energy of one main-block exercise.
var caloriesPerBlock = map[string]int{
	"Burpee":             45,
	"Thruster":           45,
	"Clean and Press":    45,
	"Box Jump":           40,
	"Tuck Jump":          40,
	"Kettlebell Swing":   40,
	"Jump Squat":         35,
	"Skater Hop":         35,
	"Mountain Climber":   35,
	"Deadlift":           35,
	"Barbell Back Squat": 35,
	"Cha-cha Step":       30,
	"Grapevine":          25,
	"Step Touch":         25,
	"Side Shuffle":       25,
	"Plank":              15,
	"Side Plank":         15,
	"Dead Bug":           15,
	"Bird Dog":           15,
	"Crunch":             15,
	"Bicycle Crunch":     20,
	"Bicep Curl":         15,
}

const defaultBlockCalories = 25

func blockCalories(name string) int {
	if kcal, ok := caloriesPerBlock[name]; ok {
		return kcal
	}
	return defaultBlockCalories
}
