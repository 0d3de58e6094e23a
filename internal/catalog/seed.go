package catalog

import "olif/internal/models"

// Restaurants is the built-in storefront catalog, seeded into the store at start.
var Restaurants = []models.Restaurant{
	{
		ID:           "res-1",
		Name:         "The Lagos Kitchen",
		Image:        "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?q=80&w=2070&auto=format&fit=crop",
		Rating:       4.9,
		Reviews:      2450,
		DeliveryFee:  1500,
		DeliveryTime: "25-40 min",
		Categories:   []models.FoodCategory{models.CategoryNigerian},
		Menu: []models.MenuItem{
			{
				ID:          "ng-1",
				Name:        "Smoky Party Jollof Rice",
				Description: "Authentic Nigerian party-style jollof rice served with fried plantain, moin-moin, and choice of protein (Beef/Chicken).",
				Price:       5500,
				Image:       "https://images.unsplash.com/photo-1628143242636-9769919b4862?q=80&w=1964&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      4.9,
				PrepTime:    "20 min",
				Ingredients: []string{"Long grain rice", "Bell peppers", "Tomatoes", "Scotch bonnet", "Thyme", "Bay leaf"},
			},
			{
				ID:          "ng-2",
				Name:        "Pounded Yam & Egusi Soup",
				Description: "Soft, fluffy pounded yam served with rich Egusi soup containing assorted meats, stockfish, and ponmo.",
				Price:       7200,
				Image:       "https://images.unsplash.com/photo-1534422298391-e4f8c170db76?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      4.8,
				PrepTime:    "25 min",
				Ingredients: []string{"Yam", "Melon seeds", "Spinach", "Assorted meat", "Palm oil", "Crayfish"},
			},
			{
				ID:          "ng-3",
				Name:        "Amala & Ewedu with Gbegiri",
				Description: "Authentic Oyo-style Amala served with viscous Ewedu, bean soup (Gbegiri), and signature stew with assorted meat.",
				Price:       6800,
				Image:       "https://images.unsplash.com/photo-1604328698692-f76ea9498e76?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      5.0,
				PrepTime:    "15 min",
				Ingredients: []string{"Yam flour", "Jute leaves", "Honey beans", "Beef", "Tripe"},
			},
			{
				ID:          "ng-4",
				Name:        "Assorted Meat Pepper Soup",
				Description: "Spicy, aromatic broth made with a blend of local spices and various cuts of tender meat.",
				Price:       4500,
				Image:       "https://images.unsplash.com/photo-1547592166-23ac45744acd?q=80&w=2071&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      4.7,
				PrepTime:    "15 min",
				Ingredients: []string{"Goat meat", "Scent leaves", "Pepper soup spice", "Ginger", "Garlic"},
			},
		},
	},
	{
		ID:           "res-suya",
		Name:         "Aboki Suya Central",
		Image:        "https://images.unsplash.com/photo-1544025162-d76694265947?q=80&w=2069&auto=format&fit=crop",
		Rating:       4.8,
		Reviews:      1800,
		DeliveryFee:  1200,
		DeliveryTime: "20-30 min",
		Categories:   []models.FoodCategory{models.CategoryNigerian, models.CategoryFastFood},
		Menu: []models.MenuItem{
			{
				ID:          "ng-5",
				Name:        "Beef Suya Platter",
				Description: "Thinly sliced grilled beef marinated in spicy yaji pepper, served with onions, tomatoes, and cabbage.",
				Price:       3500,
				Image:       "https://images.unsplash.com/photo-1529692236671-f1f6e9481bfa?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryFastFood,
				Rating:      4.9,
				PrepTime:    "15 min",
				Ingredients: []string{"Beef", "Kuli-kuli", "Ginger", "Cayenne pepper", "Onions"},
			},
			{
				ID:          "ng-6",
				Name:        "Kilishi (Jerky)",
				Description: "Premium sun-dried spiced beef jerky. A classic Northern Nigerian delicacy.",
				Price:       5000,
				Image:       "https://images.unsplash.com/photo-1599481238505-b8b0537a3f77?q=80&w=1964&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      4.8,
				PrepTime:    "5 min",
				Ingredients: []string{"Dried beef", "Peanut paste", "Spices"},
			},
		},
	},
	{
		ID:           "res-delta",
		Name:         "Banga Delight",
		Image:        "https://images.unsplash.com/photo-1511690656952-34342bb7c2f2?q=80&w=1964&auto=format&fit=crop",
		Rating:       4.7,
		Reviews:      950,
		DeliveryFee:  2000,
		DeliveryTime: "45-60 min",
		Categories:   []models.FoodCategory{models.CategoryNigerian},
		Menu: []models.MenuItem{
			{
				ID:          "ng-7",
				Name:        "Banga Soup & Starch",
				Description: "Traditional palm nut fruit soup served with smooth yellow starch and fresh catfish.",
				Price:       8500,
				Image:       "https://images.unsplash.com/photo-1606787366850-de6330128bfc?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      4.9,
				PrepTime:    "40 min",
				Ingredients: []string{"Palm nut extract", "Beletete leaves", "Oburunbebe stick", "Catfish", "Periwinkles"},
			},
			{
				ID:          "ng-8",
				Name:        "Fisherman Soup",
				Description: "An indulgent seafood broth loaded with crab, prawns, fresh fish, and local spices.",
				Price:       12000,
				Image:       "https://images.unsplash.com/photo-1559740196-196ad52631c6?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryNigerian,
				Rating:      5.0,
				PrepTime:    "30 min",
				Ingredients: []string{"Crabs", "Prawns", "Fish", "Oziza leaves", "Okro"},
			},
		},
	},
	{
		ID:           "res-healthy",
		Name:         "Greenleaf Abuja",
		Image:        "https://images.unsplash.com/photo-1490645935967-10de6ba17061?q=80&w=2053&auto=format&fit=crop",
		Rating:       4.6,
		Reviews:      620,
		DeliveryFee:  1800,
		DeliveryTime: "20-35 min",
		Categories:   []models.FoodCategory{models.CategoryHealthy},
		Menu: []models.MenuItem{
			{
				ID:          "ng-9",
				Name:        "Ofada Rice & Sauce",
				Description: "Unpolished local rice served with a fiery green pepper sauce (Ayamase) and assorted boiled meats.",
				Price:       6500,
				Image:       "https://images.unsplash.com/photo-1512058560366-cd2429597e70?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryHealthy,
				Rating:      4.7,
				PrepTime:    "25 min",
				Ingredients: []string{"Ofada rice", "Green peppers", "Locust beans (Iru)", "Bleached palm oil", "Eggs"},
			},
			{
				ID:          "ng-10",
				Name:        "Beans & Corn (Adalu)",
				Description: "A nutritious stew of honey beans and sweet corn, slow-cooked in a spicy palm oil base.",
				Price:       4000,
				Image:       "https://images.unsplash.com/photo-1547592115-305886470377?q=80&w=2070&auto=format&fit=crop",
				Category:    models.CategoryHealthy,
				Rating:      4.5,
				PrepTime:    "20 min",
				Ingredients: []string{"Honey beans", "Sweet corn", "Palm oil", "Onions", "Crayfish"},
			},
		},
	},
}
