package core

// Category is one of the fixed expense category labels.
type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryUtilities      Category = "Utilities"
	CategoryEducation      Category = "Education"
	CategoryGroceries      Category = "Groceries"
	CategoryFitness        Category = "Fitness"
	CategoryTravel         Category = "Travel"
	CategoryBills          Category = "Bills & Subscriptions"
	CategoryClothing       Category = "Clothing"
	CategoryElectronics    Category = "Electronics"
	CategoryHomeGarden     Category = "Home & Garden"
	CategoryGifts          Category = "Gifts & Donations"
	CategoryOther          Category = "Other"
)

// Categories is the fixed category order. Keyword scoring ties are broken by
// this order, so it must stay stable.
var Categories = []Category{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryUtilities,
	CategoryEducation,
	CategoryGroceries,
	CategoryFitness,
	CategoryTravel,
	CategoryBills,
	CategoryClothing,
	CategoryElectronics,
	CategoryHomeGarden,
	CategoryGifts,
	CategoryOther,
}

// CategoryMeta holds display metadata for a category.
type CategoryMeta struct {
	Icon  string
	Color string
}

var categoryMeta = map[Category]CategoryMeta{
	CategoryFoodDining:     {Icon: "🍽️", Color: "#FF6B6B"},
	CategoryTransportation: {Icon: "🚗", Color: "#4ECDC4"},
	CategoryShopping:       {Icon: "🛍️", Color: "#45B7D1"},
	CategoryEntertainment:  {Icon: "🎬", Color: "#96CEB4"},
	CategoryHealthcare:     {Icon: "🏥", Color: "#FFEAA7"},
	CategoryUtilities:      {Icon: "⚡", Color: "#DDA0DD"},
	CategoryEducation:      {Icon: "📚", Color: "#98D8C8"},
	CategoryGroceries:      {Icon: "🛒", Color: "#F7DC6F"},
	CategoryFitness:        {Icon: "💪", Color: "#BB8FCE"},
	CategoryTravel:         {Icon: "✈️", Color: "#85C1E9"},
	CategoryBills:          {Icon: "📄", Color: "#F8C471"},
	CategoryClothing:       {Icon: "👕", Color: "#82E0AA"},
	CategoryElectronics:    {Icon: "📱", Color: "#AED6F1"},
	CategoryHomeGarden:     {Icon: "🏠", Color: "#A9DFBF"},
	CategoryGifts:          {Icon: "🎁", Color: "#F1948A"},
	CategoryOther:          {Icon: "💰", Color: "#D5DBDB"},
}

// Meta returns display metadata for the category. Unknown labels get the
// "Other" metadata so callers never render an empty icon.
func (c Category) Meta() CategoryMeta {
	if m, ok := categoryMeta[c]; ok {
		return m
	}
	return categoryMeta[CategoryOther]
}

// Valid reports whether the label is one of the configured categories.
func (c Category) Valid() bool {
	_, ok := categoryMeta[c]
	return ok
}
