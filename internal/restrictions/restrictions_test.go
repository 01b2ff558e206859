package restrictions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandResolvesAliasesAndDeduplicates(t *testing.T) {
	set := Expand([]string{"Vegana", "vegan", "sem lactose", "low-fodmap", " "})

	require.Equal(t, []string{"lactose-intolerant", "vegan", "low-fodmap"}, set.Tags())
	require.False(t, set.Empty())
	require.True(t, Expand(nil).Empty())
}

func TestLactosePromptWording(t *testing.T) {
	set := Expand([]string{"lactose-intolerant"})
	require.Equal(t, []string{"milk", "regular yogurt", "regular cheese", "cream", "butter"}, set.PromptTerms())
}

func TestVeganIsSupersetOfVegetarian(t *testing.T) {
	vegan := Expand([]string{"vegan"})
	vegetarian := Expand([]string{"vegetarian"})

	for _, food := range []string{"grilled chicken", "tuna salad", "scrambled eggs", "greek yogurt", "honey drizzle", "whey shake"} {
		require.NotEmpty(t, vegan.Violations(food), food)
	}
	for _, term := range vegetarian.PromptTerms() {
		require.Contains(t, vegan.PromptTerms(), term)
	}
	require.True(t, vegetarian.Allows("scrambled eggs"))
}

func TestMatchingUsesWholeWords(t *testing.T) {
	set := Expand([]string{"vegan", "gluten-free"})

	require.True(t, set.Allows("roasted veggies"))
	require.True(t, set.Allows("buckwheat porridge"))
	require.False(t, set.Allows("Boiled Eggs"))
	require.False(t, set.Allows("wholegrain bread"))
	require.True(t, set.Allows("gluten-free bread"))
	require.True(t, set.Allows("rice noodles"))
	require.False(t, set.Allows("egg noodles"))
}

func TestFoodsAgainstRestrictions(t *testing.T) {
	cases := []struct {
		tags    []string
		food    string
		allowed bool
	}{
		{[]string{"vegan"}, "almond milk", true},
		{[]string{"vegan"}, "coconut milk curry", true},
		{[]string{"vegan"}, "peanut butter", true},
		{[]string{"vegan"}, "roasted eggplant", true},
		{[]string{"vegan"}, "butternut squash soup", true},
		{[]string{"vegan"}, "peanut butter with ham", false},
		{[]string{"vegan"}, "almond milk and honey", false},
		{[]string{"vegan"}, "grilled cod", false},
		{[]string{"vegan"}, "lamb kofta", false},
		{[]string{"vegan"}, "mozzarella salad", false},
		{[]string{"vegan"}, "parmesan risotto", false},
		{[]string{"vegan"}, "ghee rice", false},
		{[]string{"vegan"}, "prawn curry", false},
		{[]string{"vegan"}, "anchovy pasta", false},
		{[]string{"vegan"}, "marinated anchovies", false},
		{[]string{"lactose-intolerant"}, "peanut butter toast", true},
		{[]string{"lactose-intolerant"}, "oat milk latte", true},
		{[]string{"lactose-intolerant"}, "feta crumbles", false},
		{[]string{"vegetarian"}, "beef meatballs", false},
		{[]string{"vegetarian"}, "hamburger", false},
		{[]string{"vegetarian"}, "shallot and mushroom tart", true},
		{[]string{"seafood-allergy"}, "steamed clams", false},
		{[]string{"seafood-allergy"}, "crabapple jelly", true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, Expand(tc.tags).Allows(tc.food), "%v %q", tc.tags, tc.food)
	}
}

func TestExceptQualifierOnlyCoversItsRule(t *testing.T) {
	lactose := Expand([]string{"lactose-intolerant"})
	require.True(t, lactose.Allows("lactose-free yogurt"))

	vegan := Expand([]string{"lactose-intolerant", "vegan"})
	require.Equal(t, []string{"vegan"}, vegan.Violations("lactose-free yogurt"))
}

func TestSubstitute(t *testing.T) {
	lactose := Expand([]string{"lactose"})
	got, ok := lactose.Substitute("greek yogurt with oats")
	require.True(t, ok)
	require.Equal(t, "lactose-free yogurt", got)

	vegan := Expand([]string{"vegan"})
	got, ok = vegan.Substitute("skim milk")
	require.True(t, ok)
	require.Equal(t, "soy drink", got)

	got, ok = vegan.Substitute("grilled chicken breast")
	require.True(t, ok)
	require.Equal(t, "grilled tofu", got)

	_, ok = vegan.Substitute("gelatin cubes")
	require.False(t, ok)

	got, ok = vegan.Substitute("peanut butter with bacon")
	require.True(t, ok)
	require.Equal(t, "smoked tempeh strips", got)
}

func TestFilterDropsAndDeduplicates(t *testing.T) {
	set := Expand([]string{"vegan"})
	got := set.Filter([]string{"grilled chicken", "brown rice", "roast turkey", "gelatin cubes", "steamed broccoli"})

	require.Equal(t, []string{"grilled tofu", "brown rice", "steamed broccoli"}, got)
	for _, food := range got {
		require.True(t, set.Allows(food), food)
	}
}
