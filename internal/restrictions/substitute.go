package restrictions

// substitutes lists replacement candidates per forbidden keyword, best first.
var substitutes = []struct {
	keyword    string
	candidates []string
}{
	{"yogurt", []string{"lactose-free yogurt", "coconut cultured dessert"}},
	{"yoghurt", []string{"lactose-free yogurt", "coconut cultured dessert"}},
	{"cheese", []string{"lactose-free cheese", "nutritional yeast flakes"}},
	{"mozzarella", []string{"lactose-free cheese", "nutritional yeast flakes"}},
	{"cheddar", []string{"lactose-free cheese", "nutritional yeast flakes"}},
	{"parmesan", []string{"nutritional yeast flakes"}},
	{"feta", []string{"marinated tofu cubes"}},
	{"ricotta", []string{"lactose-free cheese", "cashew spread"}},
	{"milk", []string{"lactose-free milk", "soy drink"}},
	{"cream", []string{"cashew spread"}},
	{"butter", []string{"olive oil drizzle"}},
	{"ghee", []string{"olive oil drizzle"}},
	{"mayonnaise", []string{"hummus"}},
	{"whey", []string{"pea protein shake"}},
	{"honey", []string{"maple syrup"}},
	{"egg", []string{"tofu scramble", "chickpea omelette"}},
	{"chicken", []string{"grilled tofu", "lentil stew"}},
	{"turkey", []string{"grilled tofu", "lentil stew"}},
	{"beef", []string{"black bean patty", "lentil stew"}},
	{"pork", []string{"black bean patty", "lentil stew"}},
	{"lamb", []string{"lentil stew"}},
	{"steak", []string{"black bean patty"}},
	{"sausage", []string{"black bean patty"}},
	{"ham", []string{"hummus"}},
	{"bacon", []string{"smoked tempeh strips"}},
	{"salmon", []string{"marinated tempeh"}},
	{"tuna", []string{"chickpea salad"}},
	{"sardine", []string{"chickpea salad"}},
	{"cod", []string{"marinated tempeh"}},
	{"tilapia", []string{"marinated tempeh"}},
	{"fish", []string{"marinated tempeh"}},
	{"shrimp", []string{"sauteed mushrooms"}},
	{"prawn", []string{"sauteed mushrooms"}},
	{"bread", []string{"gluten-free bread", "rice cakes"}},
	{"pasta", []string{"gluten-free pasta", "rice noodles"}},
	{"spaghetti", []string{"gluten-free pasta", "rice noodles"}},
	{"noodle", []string{"rice noodles"}},
	{"couscous", []string{"quinoa"}},
	{"cracker", []string{"rice cakes"}},
}

// Substitute returns a food the set allows, replacing the first forbidden keyword
// with a safe candidate. The second value is false when no safe replacement exists
// and the food must be dropped.
func (s Set) Substitute(food string) (string, bool) {
	words := splitWords(food)
	hit := make(map[string]bool)
	for _, r := range s.rules {
		for _, term := range r.hits(words) {
			hit[term] = true
		}
	}
	if len(hit) == 0 {
		return food, true
	}
	for _, sub := range substitutes {
		if !hit[sub.keyword] {
			continue
		}
		for _, candidate := range sub.candidates {
			if s.Allows(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// Filter substitutes or drops every food the set forbids, keeping order and
// removing duplicates introduced by substitution.
func (s Set) Filter(foods []string) []string {
	seen := make(map[string]bool, len(foods))
	out := make([]string, 0, len(foods))
	for _, food := range foods {
		safe, ok := s.Substitute(food)
		if !ok || seen[safe] {
			continue
		}
		seen[safe] = true
		out = append(out, safe)
	}
	return out
}
