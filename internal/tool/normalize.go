package tool

import (
	"strings"
)

// validSizes is the size availability vocabulary.
var validSizes = []string{"XXS", "XS", "S", "M", "L", "XL", "XXL", "2XL", "3XL"}

// validCategories backs the zero-result suggestions.
var validCategories = []string{"dress", "shirt", "blouse", "pants", "skirt", "jacket", "top"}

// synonyms rewrites common free-text variations before matching.
var synonyms = map[string]string{
	// Category variations
	"tshirt":  "t-shirt",
	"t shirt": "t-shirt",
	"tee":     "t-shirt",
	"jeans":   "denim",
	"trouser": "trousers",
	"pant":    "pants",

	// Color variations
	"navy":  "navy blue",
	"royal": "royal blue",

	// Fabric variations
	"denim": "cotton",

	// Fit variations
	"tight":       "fitted",
	"loose":       "relaxed",
	"baggy":       "relaxed",
	"slim fit":    "slim",
	"regular fit": "regular",

	// Length variations
	"long":   "maxi",
	"short":  "mini",
	"medium": "midi",
}

// normalizeText lowercases and trims a free-text filter value and applies the
// synonym table.
func normalizeText(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return ""
	}
	if mapped, ok := synonyms[normalized]; ok {
		return mapped
	}
	return normalized
}

// splitFilterValues turns a filter value into its OR-set. A value containing
// "," or " and " becomes multiple conditions; each part goes through the
// synonym table.
func splitFilterValues(value string) []string {
	value = normalizeText(value)
	if value == "" {
		return nil
	}

	if !strings.Contains(value, ",") && !strings.Contains(value, " and ") {
		return []string{value}
	}

	var parts []string
	for _, part := range strings.Split(strings.ReplaceAll(value, " and ", ","), ",") {
		if part = normalizeText(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// normalizeSize uppercases a size and validates it against the size
// vocabulary. Invalid sizes return "".
func normalizeSize(size string) string {
	normalized := strings.ToUpper(strings.TrimSpace(size))
	for _, valid := range validSizes {
		if normalized == valid {
			return normalized
		}
	}
	return ""
}

// validatePriceRange clamps negative bounds and swaps inverted ones.
func validatePriceRange(minPrice, maxPrice *float64) (*float64, *float64) {
	if minPrice != nil && *minPrice < 0 {
		zero := 0.0
		minPrice = &zero
	}
	if maxPrice != nil && *maxPrice < 0 {
		maxPrice = nil
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		minPrice, maxPrice = maxPrice, minPrice
	}
	return minPrice, maxPrice
}

// suggestions derives zero-result hints from which filters were present.
func suggestions(applied map[string]any) []string {
	var out []string

	if _, ok := applied["size"]; ok {
		out = append(out, "Try different sizes like "+strings.Join(validSizes[:5], ", "))
	}
	if _, ok := applied["category"]; ok {
		out = append(out, "Try browsing other categories like "+strings.Join(validCategories[:3], ", "))
	}
	_, hasMin := applied["min_price"]
	_, hasMax := applied["max_price"]
	if hasMin || hasMax {
		out = append(out, "Try adjusting your price range")
	}
	if len(applied) > 3 {
		out = append(out, "Try using fewer filters to see more options")
	}

	return out
}
