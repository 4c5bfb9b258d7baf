// Package catalog scores and ranks products against attribute queries.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

// Lister provides read access to the product catalog.
type Lister interface {
	List(ctx context.Context) ([]model.Product, error)
}

// Catalog ranks products from a backing lister.
type Catalog struct {
	lister Lister
}

// New creates a catalog over the given lister.
func New(lister Lister) *Catalog {
	return &Catalog{lister: lister}
}

// Recommend fetches the catalog and returns the top scored matches for the
// attribute query.
func (c *Catalog) Recommend(ctx context.Context, query model.AttributeQuery, limit int) ([]model.ScoredProduct, error) {
	products, err := c.lister.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, query, limit), nil
}

// Filter scores each product against the query and returns at most limit
// results, most relevant first. The score is the fraction of queried
// attributes the product satisfies, over the queried attributes the product
// has a corresponding field for. Products scoring exactly zero are excluded.
// Equal scores preserve catalog order.
func Filter(products []model.Product, query model.AttributeQuery, limit int) []model.ScoredProduct {
	var results []model.ScoredProduct

	for _, p := range products {
		satisfied := 0
		corresponding := 0

		for key, wanted := range query {
			values, multi, ok := attributeValues(p, key)
			if !ok {
				continue
			}
			corresponding++
			if matches(wanted, values, multi) {
				satisfied++
			}
		}

		if corresponding == 0 || satisfied == 0 {
			continue
		}

		results = append(results, model.ScoredProduct{
			Product:    p,
			MatchScore: float64(satisfied) / float64(corresponding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// attributeValues resolves a query attribute name to the product field it
// corresponds to. multi reports whether the field holds a value set, which
// changes the matching rule.
func attributeValues(p model.Product, key string) (values []string, multi, ok bool) {
	switch key {
	case "category":
		return []string{p.Category}, false, p.Category != ""
	case "fabric":
		return []string{p.Fabric}, false, p.Fabric != ""
	case "fit":
		return []string{p.Fit}, false, p.Fit != ""
	case "color":
		return []string{p.ColorOrPrint}, false, p.ColorOrPrint != ""
	case "pattern":
		return []string{p.Pattern}, false, p.Pattern != ""
	case "style":
		return p.Style, true, len(p.Style) > 0
	case "occasion":
		return p.Occasion, true, len(p.Occasion) > 0
	default:
		return nil, false, false
	}
}

// matches reports whether any wanted value hits the product values. Value
// sets match by case-insensitive equality, scalar fields by case-insensitive
// substring.
func matches(wanted, values []string, multi bool) bool {
	for _, w := range wanted {
		w = strings.ToLower(w)
		for _, v := range values {
			v = strings.ToLower(v)
			if multi {
				if w == v {
					return true
				}
			} else if strings.Contains(v, w) {
				return true
			}
		}
	}
	return false
}
