package generator

import "example.com/wellplan/internal/domain"

// Reason explains why a generation fell back to the deterministic plan.
type Reason string

const (
	ReasonDisabled           Reason = "disabled"
	ReasonUnavailable        Reason = "unavailable"
	ReasonMalformed          Reason = "malformed"
	ReasonInvalidShape       Reason = "invalid-shape"
	ReasonDisallowedExercise Reason = "disallowed-exercise"
	ReasonRestrictedFood     Reason = "restricted-food"
)

// Outcome is either Attempted or FellBack. Both always carry a usable plan.
type Outcome interface {
	Plan() domain.Plan
	outcome()
}

// Attempted is a plan produced by the generative service that passed validation.
type Attempted struct {
	Generated domain.Plan
}

// Plan returns the generated plan.
func (a Attempted) Plan() domain.Plan { return a.Generated }

func (Attempted) outcome() {}

// FellBack is a deterministic plan used because generation was skipped or failed.
type FellBack struct {
	Fallback domain.Plan
	Reason   Reason
	Cause    error
}

// Plan returns the fallback plan.
func (f FellBack) Plan() domain.Plan { return f.Fallback }

func (FellBack) outcome() {}
