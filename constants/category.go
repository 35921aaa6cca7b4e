package constants

import (
	"strings"
)

type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Medical       Category = "Medical"
	Entertainment Category = "Entertainment"
	Other         Category = "Other"
)

var allCategories = []Category{
	Food,
	Transport,
	Shopping,
	Medical,
	Entertainment,
	Other,
}

func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a free-form category label onto the fixed enum.
// The second return reports whether the label was recognized; unrecognized
// labels map to Other.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms the vision model tends to emit
	synonyms := map[string]Category{
		"dining":        Food,
		"restaurant":    Food,
		"groceries":     Food,
		"travel":        Transport,
		"fuel":          Transport,
		"retail":        Shopping,
		"pharmacy":      Medical,
		"health":        Medical,
		"healthcare":    Medical,
		"movies":        Entertainment,
		"miscellaneous": Other,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
