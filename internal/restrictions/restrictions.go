// Package restrictions expands dietary restriction tags into forbidden ingredient lists.
package restrictions

import (
	"sort"
	"strings"
	"unicode"
)

// Rule is the forbidden ingredient set for one restriction tag.
//
// Forbidden terms match whole words of a food description, including plurals,
// so "eggs" matches "egg" while "eggplant" does not. Words inside a Safe phrase
// are ignored, so "peanut butter" never matches "butter". A food containing any
// Except qualifier is treated as safe for this rule.
type Rule struct {
	Tag       string
	Forbidden []string
	Safe      []string
	Except    []string
	// Prompt is the human wording sent to the generative service.
	Prompt []string
}

var meatAndFish = []string{
	"meat", "meatball", "chicken", "beef", "pork", "lamb", "veal", "mutton", "duck",
	"steak", "sausage", "ham", "hamburger", "turkey", "bacon", "chorizo", "salami",
	"pepperoni", "prosciutto", "gelatin", "lard",
	"fish", "tuna", "salmon", "sardine", "cod", "tilapia", "trout", "mackerel",
	"haddock", "anchovy", "shrimp", "prawn", "crab", "lobster", "squid", "octopus",
	"mussel", "oyster", "clam", "scallop",
}

var dairy = []string{
	"milk", "buttermilk", "yogurt", "yoghurt", "kefir", "cheese", "cheeseburger",
	"mozzarella", "parmesan", "ricotta", "feta", "cheddar", "paneer",
	"cream", "butter", "custard",
}

// plantDairy names plant foods that borrow a dairy word.
var plantDairy = []string{
	"almond milk", "soy milk", "oat milk", "coconut milk", "rice milk", "cashew milk",
	"coconut cream", "coconut yogurt", "soy yogurt", "vegan cheese", "vegan butter",
	"peanut butter", "almond butter", "cashew butter", "nut butter", "sunflower butter",
	"cocoa butter", "plant-based milk",
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var rules = map[string]Rule{
	"lactose-intolerant": {
		Tag:       "lactose-intolerant",
		Forbidden: dairy,
		Safe:      plantDairy,
		Except:    []string{"lactose-free"},
		Prompt:    []string{"milk", "regular yogurt", "regular cheese", "cream", "butter"},
	},
	"vegetarian": {
		Tag:       "vegetarian",
		Forbidden: meatAndFish,
		Prompt:    meatAndFish,
	},
	"vegan": {
		Tag:       "vegan",
		Forbidden: concat(meatAndFish, dairy, []string{"egg", "whey", "casein", "ghee", "honey", "mayonnaise"}),
		Safe:      concat(plantDairy, []string{"vegan mayonnaise"}),
		Prompt:    concat(meatAndFish, []string{"eggs", "dairy (milk, yogurt, cheese, cream, butter, ghee)", "whey", "honey", "mayonnaise"}),
	},
	"gluten-free": {
		Tag: "gluten-free",
		Forbidden: []string{
			"wheat", "bread", "breadcrumb", "pasta", "spaghetti", "noodle", "flour",
			"barley", "rye", "couscous", "bulgur", "semolina", "seitan", "cracker",
		},
		Safe:   []string{"rice noodle", "rice flour", "almond flour", "coconut flour", "corn flour", "chickpea flour"},
		Except: []string{"gluten-free"},
		Prompt: []string{"wheat", "regular bread", "regular pasta", "barley", "rye", "couscous", "crackers"},
	},
	"seafood-allergy": {
		Tag:       "seafood-allergy",
		Forbidden: []string{"shrimp", "prawn", "crab", "lobster", "mussel", "oyster", "clam", "scallop", "squid", "octopus"},
		Prompt:    []string{"shrimp", "prawns", "crab", "lobster", "mussels", "oysters", "clams", "scallops", "squid", "octopus"},
	},
}

var aliases = map[string]string{
	"lactose-intolerant":    "lactose-intolerant",
	"lactose-intolerance":   "lactose-intolerant",
	"lactose":               "lactose-intolerant",
	"intolerancia-lactose":  "lactose-intolerant",
	"sem-lactose":           "lactose-intolerant",
	"vegetarian":            "vegetarian",
	"vegetariano":           "vegetarian",
	"vegetariana":           "vegetarian",
	"vegan":                 "vegan",
	"vegano":                "vegan",
	"vegana":                "vegan",
	"gluten-free":           "gluten-free",
	"gluten":                "gluten-free",
	"celiac":                "gluten-free",
	"sem-gluten":            "gluten-free",
	"celiaco":               "gluten-free",
	"seafood-allergy":       "seafood-allergy",
	"shellfish":             "seafood-allergy",
	"alergia-frutos-do-mar": "seafood-allergy",
}

// Canonical maps a raw tag to its rule tag. The second value is false for unknown tags.
func Canonical(tag string) (string, bool) {
	canonical, ok := aliases[normalize(tag)]
	return canonical, ok
}

// Set is the combined forbidden ingredient set for a list of restriction tags.
type Set struct {
	rules   []Rule
	unknown []string
}

// Expand resolves tags into a Set. Unknown tags are kept verbatim so they can
// still be passed to the generative service as free text.
func Expand(tags []string) Set {
	seen := make(map[string]bool, len(tags))
	var s Set
	for _, tag := range tags {
		canonical, ok := Canonical(tag)
		if !ok {
			trimmed := strings.TrimSpace(tag)
			if trimmed != "" && !seen["?"+trimmed] {
				seen["?"+trimmed] = true
				s.unknown = append(s.unknown, trimmed)
			}
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		s.rules = append(s.rules, rules[canonical])
	}
	sort.Slice(s.rules, func(i, j int) bool { return s.rules[i].Tag < s.rules[j].Tag })
	return s
}

// Empty reports whether no restriction applies.
func (s Set) Empty() bool {
	return len(s.rules) == 0 && len(s.unknown) == 0
}

// Tags returns the canonical tags in the set followed by any unknown raw tags.
func (s Set) Tags() []string {
	tags := make([]string, 0, len(s.rules)+len(s.unknown))
	for _, r := range s.rules {
		tags = append(tags, r.Tag)
	}
	return append(tags, s.unknown...)
}

// PromptTerms returns the de-duplicated ingredient wording communicated to the generative service.
func (s Set) PromptTerms() []string {
	seen := make(map[string]bool)
	var terms []string
	for _, r := range s.rules {
		for _, term := range r.Prompt {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	for _, tag := range s.unknown {
		if !seen[tag] {
			seen[tag] = true
			terms = append(terms, tag)
		}
	}
	return terms
}

// Violations returns the restriction tags a food description breaks.
func (s Set) Violations(food string) []string {
	words := splitWords(food)
	var broken []string
	for _, r := range s.rules {
		if len(r.hits(words)) > 0 {
			broken = append(broken, r.Tag)
		}
	}
	return broken
}

// Allows reports whether a food description breaks none of the restrictions.
func (s Set) Allows(food string) bool {
	return len(s.Violations(food)) == 0
}

// hits returns the forbidden terms found in words outside any safe phrase.
func (r Rule) hits(words []string) []string {
	for _, except := range r.Except {
		if len(find(words, nil, splitWords(except))) > 0 {
			return nil
		}
	}
	masked := make([]bool, len(words))
	for _, safe := range r.Safe {
		phrase := splitWords(safe)
		for _, at := range find(words, nil, phrase) {
			for j := range phrase {
				masked[at+j] = true
			}
		}
	}
	var found []string
	for _, term := range r.Forbidden {
		if len(find(words, masked, splitWords(term))) > 0 {
			found = append(found, term)
		}
	}
	return found
}

// find returns every index where phrase starts in words without touching a masked word.
func find(words []string, masked []bool, phrase []string) []int {
	var at []int
	for i := 0; i+len(phrase) <= len(words) && len(phrase) > 0; i++ {
		ok := true
		for j, want := range phrase {
			if (masked != nil && masked[i+j]) || !sameWord(words[i+j], want) {
				ok = false
				break
			}
		}
		if ok {
			at = append(at, i)
		}
	}
	return at
}

// sameWord reports whether word is term or one of its regular plurals.
func sameWord(word, term string) bool {
	switch {
	case word == term, word == term+"s", word == term+"es":
		return true
	case strings.HasSuffix(term, "y"):
		return word == strings.TrimSuffix(term, "y")+"ies"
	}
	return false
}

func splitWords(value string) []string {
	return strings.FieldsFunc(strings.ToLower(value), func(r rune) bool { return !unicode.IsLetter(r) })
}

func normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "_", "-")
	return strings.ReplaceAll(value, " ", "-")
}
