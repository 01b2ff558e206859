package domain

// PhaseTag identifies the source and bucket of a phase descriptor.
type PhaseTag string

const (
	PhaseMenstrualBleed        PhaseTag = "menstrual-bleed"
	PhaseFollicular            PhaseTag = "follicular"
	PhaseOvulatory             PhaseTag = "ovulatory"
	PhaseLuteal                PhaseTag = "luteal"
	PhaseMenopauseSymptomatic  PhaseTag = "menopause-symptomatic"
	PhaseMenopauseNeutral      PhaseTag = "menopause-neutral"
	PhaseDailyFeedbackOverride PhaseTag = "daily-feedback-override"
	// PhaseNeutral is used when the profile carries no cycle, menopause or daily feedback state.
	PhaseNeutral PhaseTag = "neutral"
)

// IsCycle reports whether the tag comes from the menstrual cycle branch.
func (t PhaseTag) IsCycle() bool {
	switch t {
	case PhaseMenstrualBleed, PhaseFollicular, PhaseOvulatory, PhaseLuteal:
		return true
	}
	return false
}

// PhaseDescriptor biases workout intensity and tone.
type PhaseDescriptor struct {
	Tag        PhaseTag `json:"tag"`
	Multiplier float64  `json:"intensity_multiplier"`
	Rationale  string   `json:"rationale"`
	DayInCycle *int     `json:"day_in_cycle,omitempty"`
	Tips       []string `json:"tips,omitempty"`
}
