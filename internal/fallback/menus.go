package fallback

type menuMeal struct {
	name  string
	foods []string
}

type menu struct {
	breakfast menuMeal
	lunch     menuMeal
	dinner    menuMeal
	snacks    menuMeal
}

// weeklyMenus is indexed in domain.Weekdays order. Every meal keeps at least one
// plant food so restriction filtering never empties it.
var weeklyMenus = [7]menu{
	{
		breakfast: menuMeal{"Oat porridge bowl", []string{"rolled oats", "milk", "banana slices", "chia seeds"}},
		lunch:     menuMeal{"Grilled chicken plate", []string{"grilled chicken breast", "brown rice", "black beans", "green salad with olive oil"}},
		dinner:    menuMeal{"Baked salmon dinner", []string{"baked salmon", "roasted sweet potato", "steamed broccoli"}},
		snacks:    menuMeal{"Yogurt and fruit", []string{"greek yogurt", "strawberries"}},
	},
	{
		breakfast: menuMeal{"Eggs on toast", []string{"scrambled eggs", "wholegrain bread", "sliced tomato"}},
		lunch:     menuMeal{"Beef and quinoa bowl", []string{"lean beef strips", "quinoa", "sauteed zucchini", "carrot sticks"}},
		dinner:    menuMeal{"Lentil soup", []string{"lentil soup", "mixed leaf salad", "pumpkin seeds"}},
		snacks:    menuMeal{"Fruit and nuts", []string{"apple", "walnuts"}},
	},
	{
		breakfast: menuMeal{"Smoothie breakfast", []string{"mixed berries", "milk", "rolled oats", "flaxseed"}},
		lunch:     menuMeal{"Tuna pasta salad", []string{"tuna", "wholegrain pasta", "cherry tomatoes", "cucumber"}},
		dinner:    menuMeal{"Turkey stir-fry", []string{"turkey strips", "brown rice", "stir-fried peppers", "bok choy"}},
		snacks:    menuMeal{"Cheese and crackers", []string{"cottage cheese", "wholegrain crackers", "grapes"}},
	},
	{
		breakfast: menuMeal{"Tapioca crepe", []string{"tapioca crepe", "scrambled eggs", "papaya"}},
		lunch:     menuMeal{"Rice and beans plate", []string{"grilled chicken thigh", "white rice", "pinto beans", "sauteed kale"}},
		dinner:    menuMeal{"Vegetable omelette", []string{"egg omelette with spinach", "roasted pumpkin", "side salad"}},
		snacks:    menuMeal{"Banana and seeds", []string{"banana", "sunflower seeds"}},
	},
	{
		breakfast: menuMeal{"Yogurt parfait", []string{"greek yogurt", "granola", "blueberries"}},
		lunch:     menuMeal{"Fish tacos", []string{"grilled white fish", "corn tortillas", "cabbage slaw", "avocado"}},
		dinner:    menuMeal{"Chickpea curry", []string{"chickpea curry", "brown rice", "steamed green beans"}},
		snacks:    menuMeal{"Hummus plate", []string{"hummus", "carrot sticks", "cucumber slices"}},
	},
	{
		breakfast: menuMeal{"Pancake breakfast", []string{"banana oat pancakes", "mixed berries", "maple syrup"}},
		lunch:     menuMeal{"Burger plate", []string{"lean beef burger", "wholegrain bread bun", "lettuce and tomato", "baked potato wedges"}},
		dinner:    menuMeal{"Shrimp rice bowl", []string{"garlic shrimp", "jasmine rice", "stir-fried snow peas"}},
		snacks:    menuMeal{"Trail mix", []string{"almonds", "raisins"}},
	},
	{
		breakfast: menuMeal{"Cheese toast", []string{"wholegrain bread", "white cheese", "orange"}},
		lunch:     menuMeal{"Roast chicken lunch", []string{"roast chicken", "roasted potatoes", "roasted carrots", "green peas"}},
		dinner:    menuMeal{"Tofu noodle bowl", []string{"firm tofu", "rice noodles", "mixed stir-fry vegetables"}},
		snacks:    menuMeal{"Fruit salad", []string{"fruit salad", "pumpkin seeds"}},
	},
}
