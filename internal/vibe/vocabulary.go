// Package vibe maps informal "vibe" descriptors to structured product
// attributes.
package vibe

// attributeKeys is the fixed set of attribute names a vibe term may map to.
var attributeKeys = []string{"style", "fabric", "fit", "pattern", "color", "occasion"}

// vocabulary is the static vibe-term table. Terms are matched as
// case-insensitive substrings of the user query.
var vocabulary = map[string]map[string][]string{
	"casual": {
		"style":    {"relaxed", "everyday", "comfortable"},
		"fabric":   {"cotton", "denim", "jersey", "linen"},
		"fit":      {"relaxed", "regular"},
		"occasion": {"everyday", "weekend", "casual outing"},
	},
	"formal": {
		"style":    {"elegant", "sophisticated", "tailored"},
		"fabric":   {"silk", "satin", "wool", "polyester blend"},
		"fit":      {"tailored", "slim"},
		"occasion": {"work", "business", "formal event"},
	},
	"cute": {
		"style":    {"playful", "feminine", "youthful"},
		"pattern":  {"floral", "polka dot", "heart"},
		"color":    {"pastel", "pink", "light blue", "lavender"},
		"occasion": {"date", "casual outing", "brunch"},
	},
	"edgy": {
		"style":    {"bold", "statement", "modern"},
		"color":    {"black", "dark", "metallic"},
		"fabric":   {"leather", "denim", "mesh"},
		"occasion": {"night out", "concert", "party"},
	},
	"boho": {
		"style":    {"bohemian", "free-spirited", "artistic"},
		"pattern":  {"paisley", "floral", "ethnic"},
		"fabric":   {"cotton", "linen", "crochet"},
		"fit":      {"flowy", "relaxed"},
		"occasion": {"festival", "beach", "casual outing"},
	},
}

// Terms returns all known vibe terms.
func Terms() []string {
	out := make([]string, 0, len(vocabulary))
	for term := range vocabulary {
		out = append(out, term)
	}
	return out
}
