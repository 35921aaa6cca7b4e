package parse

import (
	"strings"

	"github.com/expenseledger/receipt-extract/constants"
)

// categoryKeywords is checked top to bottom; the first category with any
// keyword present wins. The ordering is a deliberate tie-break: a merchant
// containing both "cafe" and "store" classifies as Food, not Shopping.
var categoryKeywords = []struct {
	category constants.Category
	words    []string
}{
	{constants.Food, []string{"tea", "coffee", "restaurant", "food", "cafe", "hotel", "kitchen", "dining", "meal"}},
	{constants.Transport, []string{"taxi", "uber", "ola", "fuel", "petrol", "diesel", "transport", "bus", "train"}},
	{constants.Medical, []string{"pharmacy", "medical", "hospital", "clinic", "doctor", "medicine"}},
	{constants.Shopping, []string{"mall", "store", "shop", "retail", "market", "amazon", "flipkart"}},
	{constants.Entertainment, []string{"movie", "cinema", "theater", "entertainment", "game"}},
}

// ExtractCategory classifies receipt text by keyword presence. Always returns
// a category; text matching no keyword set is Other.
func ExtractCategory(text string) constants.Category {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				return entry.category
			}
		}
	}
	return constants.Other
}
