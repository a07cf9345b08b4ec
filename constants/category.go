package constants

import (
	"strings"
)

type Category string

const (
	Food          Category = "Food"
	Travel        Category = "Travel"
	Office        Category = "Office"
	Entertainment Category = "Entertainment"
	Other         Category = "Other"
)

var allCategories = []Category{
	Food,
	Travel,
	Office,
	Entertainment,
	Other,
}

// categoryKeywords is consulted in this order; the first set with a hit wins.
var categoryKeywords = []struct {
	Category Category
	Words    []string
}{
	{Food, []string{"restaurant", "cafe", "food", "dining", "pizza", "burger", "coffee"}},
	{Travel, []string{"hotel", "flight", "taxi", "uber", "ola", "gas", "petrol"}},
	{Office, []string{"office", "supplies", "stationery", "computer", "software"}},
	{Entertainment, []string{"movie", "cinema", "game", "entertainment", "fun"}},
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps free-form input onto the fixed category set.
// Anything unrecognized collapses to Other.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Other, false
	}
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}
	return Other, false
}

// FromKeywords classifies raw receipt text by keyword membership.
// Case-insensitive substring match; set priority is Food, Travel, Office,
// Entertainment, then Other when nothing hits.
func FromKeywords(text string) Category {
	lower := strings.ToLower(text)
	for _, set := range categoryKeywords {
		for _, w := range set.Words {
			if strings.Contains(lower, w) {
				return set.Category
			}
		}
	}
	return Other
}
