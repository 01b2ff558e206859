package phase

import (
	"fmt"
	"strings"

	"example.com/wellplan/internal/domain"
)

type symptomRule struct {
	name            string
	weight          float64
	recommendations []string
}

// symptomRules is ordered so combined recommendations are deterministic.
var symptomRules = []symptomRule{
	{
		name:   "fatigue",
		weight: 0.12,
		recommendations: []string{
			"Prefer shorter sessions split across the week",
			"Train at the time of day your energy is highest",
		},
	},
	{
		name:   "joint-pain",
		weight: 0.12,
		recommendations: []string{
			"Swap jumps and impact for low-impact alternatives",
			"Extend the mobility warmup",
		},
	},
	{
		name:   "hot-flashes",
		weight: 0.06,
		recommendations: []string{
			"Train in a cool, ventilated space",
			"Keep cold water at hand and dress in layers",
		},
	},
	{
		name:   "insomnia",
		weight: 0.08,
		recommendations: []string{
			"Avoid intense training late in the evening",
		},
	},
	{
		name:   "mood-swings",
		weight: 0.04,
		recommendations: []string{
			"Close the session with breathing or yoga",
		},
	},
}

var symptomAliases = map[string]string{
	"fatigue":             "fatigue",
	"fadiga":              "fatigue",
	"cansaco":             "fatigue",
	"joint-pain":          "joint-pain",
	"dor-articular":       "joint-pain",
	"dores-articulares":   "joint-pain",
	"hot-flashes":         "hot-flashes",
	"ondas-de-calor":      "hot-flashes",
	"fogachos":            "hot-flashes",
	"insomnia":            "insomnia",
	"insonia":             "insomnia",
	"mood-swings":         "mood-swings",
	"alteracoes-de-humor": "mood-swings",
}

func fromSymptoms(symptoms []domain.Symptom) domain.PhaseDescriptor {
	severity := make(map[string]int, len(symptoms))
	for _, s := range symptoms {
		name, ok := symptomAliases[normalizeKey(s.Name)]
		if !ok || s.Severity <= 0 {
			continue
		}
		level := s.Severity
		if level > 5 {
			level = 5
		}
		if level > severity[name] {
			severity[name] = level
		}
	}

	if len(severity) == 0 {
		return domain.PhaseDescriptor{
			Tag:        domain.PhaseMenopauseNeutral,
			Multiplier: maxMultiplier,
			Rationale:  "no active symptoms reported; full intensity",
			Tips:       []string{"Include two strength sessions a week to protect bone density"},
		}
	}

	reduction := 0.0
	var (
		active []string
		tips   []string
	)
	for _, rule := range symptomRules {
		level, ok := severity[rule.name]
		if !ok {
			continue
		}
		reduction += rule.weight * float64(level) / 5
		active = append(active, fmt.Sprintf("%s %d/5", rule.name, level))
		tips = append(tips, rule.recommendations...)
	}

	multiplier := clampMultiplier(1 - reduction)
	return domain.PhaseDescriptor{
		Tag:        domain.PhaseMenopauseSymptomatic,
		Multiplier: multiplier,
		Rationale:  fmt.Sprintf("%d active symptom(s): %s; intensity at %s", len(active), strings.Join(active, ", "), percent(multiplier)),
		Tips:       tips,
	}
}
