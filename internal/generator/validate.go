package generator

import (
	"encoding/json"
	"errors"
	"fmt"

	"example.com/wellplan/internal/catalog"
	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/restrictions"
)

var (
	// ErrMalformed indicates the response is not a JSON object.
	ErrMalformed = errors.New("malformed generation response")
	// ErrInvalidShape indicates a JSON response missing required keys.
	ErrInvalidShape = errors.New("generation response has invalid shape")
	// ErrDisallowedExercise indicates a workout with an exercise outside the level allow-list.
	ErrDisallowedExercise = errors.New("generation response contains disallowed exercise")
	// ErrRestrictedFood indicates a diet with a food the profile's restrictions forbid.
	ErrRestrictedFood = errors.New("generation response contains restricted food")
)

func requireKeys(obj map[string]json.RawMessage, keys ...string) error {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return fmt.Errorf("%w: missing %q", ErrInvalidShape, key)
		}
	}
	return nil
}

func decodeObject(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: %s is not an object", ErrInvalidShape, path)
	}
	return obj, nil
}

// ValidateDiet checks the diet contract: name, description and meal_plan present,
// all seven day keys, and each day carrying the four meal objects. Foods that
// break the restriction set invalidate the document.
func ValidateDiet(raw json.RawMessage, set restrictions.Set) (*domain.DietDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: null document", ErrMalformed)
	}
	if err := requireKeys(top, "name", "description", "meal_plan"); err != nil {
		return nil, err
	}
	days, err := decodeObject(top["meal_plan"], "meal_plan")
	if err != nil {
		return nil, err
	}
	for _, day := range domain.Weekdays {
		body, ok := days[day]
		if !ok {
			return nil, fmt.Errorf("%w: meal_plan missing %q", ErrInvalidShape, day)
		}
		slots, err := decodeObject(body, day)
		if err != nil {
			return nil, err
		}
		for _, slot := range domain.MealSlots {
			meal, ok := slots[slot]
			if !ok {
				return nil, fmt.Errorf("%w: %s missing %q", ErrInvalidShape, day, slot)
			}
			if _, err := decodeObject(meal, day+"."+slot); err != nil {
				return nil, err
			}
		}
	}

	var doc domain.DietDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	for _, day := range domain.Weekdays {
		menu := doc.MealPlan[day]
		for _, slot := range domain.MealSlots {
			meal, _ := menu.Slot(slot)
			for _, food := range meal.Foods {
				if broken := set.Violations(food); len(broken) > 0 {
					return nil, fmt.Errorf("%w: %s/%s %q breaks %v", ErrRestrictedFood, day, slot, food, broken)
				}
			}
		}
	}
	return &doc, nil
}

// ValidateWorkout checks the workout contract: name, description and
// workout_plan present, at least one non-empty exercise list, and every
// exercise drawn from the allow-list for level.
func ValidateWorkout(raw json.RawMessage, level domain.FitnessLevel) (*domain.WorkoutDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: null document", ErrMalformed)
	}
	if err := requireKeys(top, "name", "description", "workout_plan"); err != nil {
		return nil, err
	}
	if _, err := decodeObject(top["workout_plan"], "workout_plan"); err != nil {
		return nil, err
	}

	var doc domain.WorkoutDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}

	total := 0
	for _, segment := range []string{"warmup", "main", "cooldown"} {
		for _, ex := range doc.WorkoutPlan.Segments()[segment] {
			total++
			if !catalog.Allowed(level, ex.Name) {
				return nil, fmt.Errorf("%w: %s %q for level %s", ErrDisallowedExercise, segment, ex.Name, level)
			}
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no exercises", ErrInvalidShape)
	}
	return &doc, nil
}
