package catalog

import "strings"

// Workout type keys used by the templates.
const (
	TypeStrength   = "musculacao"
	TypeHome       = "casa"
	TypeCore       = "abdominal"
	TypeFunctional = "funcional"
	TypeDance      = "danca"
)

var typeAliases = map[string]string{
	"musculacao": TypeStrength,
	"strength":   TypeStrength,
	"gym":        TypeStrength,
	"weights":    TypeStrength,
	"casa":       TypeHome,
	"home":       TypeHome,
	"abdominal":  TypeCore,
	"core":       TypeCore,
	"abs":        TypeCore,
	"funcional":  TypeFunctional,
	"functional": TypeFunctional,
	"danca":      TypeDance,
	"dance":      TypeDance,
}

// NormalizeType maps a raw workout type to its template key, defaulting to strength.
func NormalizeType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("ç", "c", "ã", "a", " ", "-").Replace(key)
	if t, ok := typeAliases[key]; ok {
		return t
	}
	return TypeStrength
}
