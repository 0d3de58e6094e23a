package evaluation

// builtinScenarios are scripted against the seed catalog
func builtinScenarios() []*Scenario {
	return []*Scenario{
		{
			ID:          "single_item",
			Name:        "Single Item",
			Type:        "order",
			Description: "A quantity and a partial dish name.",
			Utterance:   "Add 2 Jollof Rice",
			Expect:      Expectation{Items: map[string]int{"ng-1": 2}, IsOrder: true},
		},
		{
			ID:          "empty_checkout",
			Name:        "Bare Checkout",
			Type:        "checkout",
			Description: "A checkout request with nothing to order.",
			Utterance:   "checkout",
			Expect:      Expectation{Checkout: true},
		},
		{
			ID:          "order_and_checkout",
			Name:        "Order Then Checkout",
			Type:        "compound",
			Description: "An order and a checkout request in one breath.",
			Utterance:   "Add 1 Suya and checkout",
			Expect:      Expectation{Items: map[string]int{"ng-5": 1}, IsOrder: true, Checkout: true},
		},
		{
			ID:          "multi_item",
			Name:        "Several Dishes",
			Type:        "order",
			Description: "Two dishes with spelled-out quantities.",
			Utterance:   "I'd like three kilishi and a bowl of fisherman soup please",
			Expect:      Expectation{Items: map[string]int{"ng-6": 3, "ng-8": 1}, IsOrder: true},
		},
		{
			ID:          "default_quantity",
			Name:        "Implied Quantity",
			Type:        "order",
			Description: "No amount given, so one portion.",
			Utterance:   "Can I get the Banga soup",
			Expect:      Expectation{Items: map[string]int{"ng-7": 1}, IsOrder: true},
		},
		{
			ID:          "unknown_item",
			Name:        "Off-Menu Dish",
			Type:        "order",
			Description: "A dish no restaurant serves.",
			Utterance:   "Add 2 sushi rolls",
			Expect:      Expectation{Unresolved: 1, IsOrder: true},
		},
		{
			ID:          "small_talk",
			Name:        "Small Talk",
			Type:        "chat",
			Description: "A question that is neither an order nor a checkout.",
			Utterance:   "How long does delivery to Lekki usually take?",
			Expect:      Expectation{},
		},
	}
}
