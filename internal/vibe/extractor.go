package vibe

import (
	"sort"
	"strings"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

// ExtractTerms returns the vocabulary terms found as case-insensitive
// substrings of the query. Pure and deterministic; results are sorted.
func ExtractTerms(query string) []string {
	query = strings.ToLower(query)

	var found []string
	for term := range vocabulary {
		if strings.Contains(query, term) {
			found = append(found, term)
		}
	}
	sort.Strings(found)
	return found
}

// MapToAttributes unions the attribute lists of the given terms into a single
// query. Values are de-duplicated, empty attribute keys are dropped, and
// unrecognized terms are silently ignored.
func MapToAttributes(terms []string) model.AttributeQuery {
	merged := make(map[string]map[string]struct{})

	for _, term := range terms {
		mapping, ok := vocabulary[strings.ToLower(term)]
		if !ok {
			continue
		}
		for _, key := range attributeKeys {
			for _, value := range mapping[key] {
				if merged[key] == nil {
					merged[key] = make(map[string]struct{})
				}
				merged[key][value] = struct{}{}
			}
		}
	}

	query := make(model.AttributeQuery, len(merged))
	for key, values := range merged {
		list := make([]string, 0, len(values))
		for value := range values {
			list = append(list, value)
		}
		sort.Strings(list)
		query[key] = list
	}
	return query
}

// MapQuery extracts vibe terms from a free-text query and maps them to
// attributes in one step.
func MapQuery(query string) ([]string, model.AttributeQuery) {
	terms := ExtractTerms(query)
	return terms, MapToAttributes(terms)
}
