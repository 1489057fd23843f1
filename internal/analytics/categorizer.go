// Package analytics implements the rule-based spending analytics engine:
// keyword categorization, period-over-period trend insights and budget
// recommendations. All entry points are pure functions over snapshots the
// storage layer already fetched; nothing here keeps state between calls.
package analytics

import (
	"strings"

	"spendwise/internal/core"
)

// categoryKeywords maps each category to its lowercase keyword list.
// Immutable process-wide configuration. Scoring is substring-based, so a
// keyword matching inside a larger word still counts.
var categoryKeywords = map[core.Category][]string{
	core.CategoryFoodDining: {
		"restaurant", "cafe", "food", "pizza", "burger", "coffee", "meal",
		"lunch", "dinner", "breakfast", "snack", "delivery", "zomato", "swiggy",
	},
	core.CategoryTransportation: {
		"uber", "ola", "taxi", "bus", "metro", "fuel", "petrol", "diesel",
		"auto", "rickshaw", "transport", "travel", "flight", "train",
	},
	core.CategoryShopping: {
		"amazon", "flipkart", "mall", "store", "shopping", "clothes",
		"dress", "shoes", "electronics", "mobile", "laptop", "book",
	},
	core.CategoryEntertainment: {
		"movie", "cinema", "netflix", "spotify", "game", "concert",
		"party", "club", "subscription", "streaming",
	},
	core.CategoryHealthcare: {
		"doctor", "hospital", "medicine", "pharmacy", "health",
		"medical", "clinic", "treatment", "checkup",
	},
	core.CategoryUtilities: {
		"electricity", "water", "gas", "internet", "phone", "mobile",
		"bill", "recharge", "utility",
	},
	core.CategoryEducation: {
		"course", "book", "education", "school", "college", "training",
		"certification", "learning",
	},
	core.CategoryGroceries: {
		"grocery", "groceries", "supermarket", "bigbasket", "vegetables",
		"fruits", "milk", "kirana",
	},
	core.CategoryFitness: {
		"gym", "fitness", "workout", "yoga", "protein", "trainer",
	},
	core.CategoryTravel: {
		"hotel", "trip", "vacation", "holiday", "airbnb", "booking",
		"resort", "tour",
	},
	core.CategoryBills: {
		"rent", "emi", "insurance", "premium", "membership", "postpaid",
	},
	core.CategoryClothing: {
		"shirt", "jeans", "apparel", "fashion", "trousers", "saree",
	},
	core.CategoryElectronics: {
		"gadget", "charger", "headphone", "earphone", "camera", "television",
	},
	core.CategoryHomeGarden: {
		"furniture", "decor", "garden", "appliance", "kitchen", "mattress",
	},
	core.CategoryGifts: {
		"gift", "donation", "charity", "wedding", "birthday",
	},
}

// Categorize maps free text to the best-fit category. The score of a
// category is the number of its keywords occurring anywhere in the
// lower-cased title+description; the strictly highest score wins. Ties are
// broken by the fixed order of core.Categories, and a zero score falls back
// to the "Other" sentinel.
func Categorize(title, description string) core.Category {
	text := strings.ToLower(title + " " + description)

	best := core.CategoryOther
	bestScore := 0
	for _, cat := range core.Categories {
		keywords, ok := categoryKeywords[cat]
		if !ok {
			continue
		}
		score := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}
