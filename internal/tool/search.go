package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/store"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
	"github.com/vibestyle/shopping-assistant/pkg/metrics"
)

// SearchName is the name of the apparel search tool.
const SearchName = "searchApparel"

// SearchTool finds apparel items by filtering at the data-access boundary.
type SearchTool struct {
	store store.Store
	log   *logger.Logger
}

// NewSearchTool creates the apparel search tool.
func NewSearchTool(st store.Store, log *logger.Logger) *SearchTool {
	return &SearchTool{store: st, log: log}
}

// Schema publishes the search tool description.
func (t *SearchTool) Schema() model.ToolSchema {
	return model.ToolSchema{
		Name: SearchName,
		Description: "Find apparel items matching the given criteria. All filters are " +
			"optional and can be combined. Returns matching items with their IDs, " +
			"a result count, and suggestions when nothing matches.",
		Params: []model.ToolParam{
			{Name: "category", Type: "string", Description: "Type of apparel, e.g. dress, shirt, pants"},
			{Name: "color_or_print", Type: "string", Description: "Color or print pattern, e.g. red, floral, striped"},
			{Name: "fabric", Type: "string", Description: "Fabric type, e.g. cotton, silk, linen"},
			{Name: "fit", Type: "string", Description: "Fit type, e.g. slim, regular, relaxed, tailored"},
			{Name: "occasion", Type: "string", Description: "Occasion, e.g. casual, formal, party, wedding"},
			{Name: "size", Type: "string", Description: "Size to check availability for", Enum: validSizes},
			{Name: "sleeve_length", Type: "string", Description: "Sleeve length, e.g. short, long, sleeveless"},
			{Name: "neckline", Type: "string", Description: "Neckline type, e.g. round, v-neck, scoop"},
			{Name: "length", Type: "string", Description: "Length, e.g. mini, midi, maxi"},
			{Name: "pant_type", Type: "string", Description: "Type of pants, e.g. jeans, trousers, shorts"},
			{Name: "min_price", Type: "number", Description: "Minimum price"},
			{Name: "max_price", Type: "number", Description: "Maximum price"},
			{Name: "limit", Type: "integer", Description: "Maximum results to return, 1-100"},
			{Name: "sort_by", Type: "string", Description: "Field to sort by", Enum: []string{"name", "price", "id"}},
			{Name: "sort_order", Type: "string", Description: "Sort order", Enum: []string{"asc", "desc"}},
		},
	}
}

// Invoke runs the search and returns the response envelope.
func (t *SearchTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	criteria, applied := t.buildCriteria(args)

	total, err := t.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog unavailable: %w", err)
	}

	if total == 0 {
		return map[string]any{
			"success":         true,
			"apparels":        []model.Product{},
			"count":           0,
			"total_in_db":     0,
			"message":         "The apparel catalog is empty. No items are currently available.",
			"filters_applied": map[string]any{},
			"suggestions":     []string{},
		}, nil
	}

	products, err := t.store.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	metrics.CatalogSearchResults.Observe(float64(len(products)))

	result := map[string]any{
		"success":         true,
		"apparels":        products,
		"count":           len(products),
		"total_in_db":     total,
		"message":         searchMessage(len(products), criteria.Limit, total, applied),
		"filters_applied": applied,
	}
	if len(products) == 0 {
		result["suggestions"] = suggestions(applied)
	} else {
		result["suggestions"] = []string{}
	}
	return result, nil
}

// buildCriteria converts raw tool arguments into store criteria, recording
// the filters that were actually applied.
func (t *SearchTool) buildCriteria(args map[string]any) (store.SearchCriteria, map[string]any) {
	applied := make(map[string]any)
	var c store.SearchCriteria

	textFilters := []struct {
		key  string
		dest *[]string
	}{
		{"category", &c.Category},
		{"color_or_print", &c.ColorOrPrint},
		{"fabric", &c.Fabric},
		{"fit", &c.Fit},
		{"occasion", &c.Occasion},
		{"sleeve_length", &c.SleeveLength},
		{"neckline", &c.Neckline},
		{"length", &c.Length},
		{"pant_type", &c.PantType},
	}
	for _, f := range textFilters {
		values := splitFilterValues(argString(args, f.key))
		if len(values) == 0 {
			continue
		}
		*f.dest = values
		if len(values) == 1 {
			applied[f.key] = values[0]
		} else {
			applied[f.key] = values
		}
	}

	if size := argString(args, "size"); size != "" {
		if normalized := normalizeSize(size); normalized != "" {
			c.Size = normalized
			applied["size"] = normalized
		} else {
			// Malformed sizes are dropped, not fatal.
			t.log.Warn("invalid size filter dropped", "size", size)
		}
	}

	var minPrice, maxPrice *float64
	if v, ok := argFloat(args, "min_price"); ok {
		minPrice = &v
	}
	if v, ok := argFloat(args, "max_price"); ok {
		maxPrice = &v
	}
	if minPrice != nil || maxPrice != nil {
		minPrice, maxPrice = validatePriceRange(minPrice, maxPrice)
		if minPrice != nil {
			c.MinPrice = minPrice
			applied["min_price"] = *minPrice
		}
		if maxPrice != nil {
			c.MaxPrice = maxPrice
			applied["max_price"] = *maxPrice
		}
	}

	c.Limit = 20
	if limit, ok := argInt(args, "limit"); ok {
		c.Limit = min(max(1, limit), 100)
	}

	if sortBy := argString(args, "sort_by"); sortBy == "name" || sortBy == "price" || sortBy == "id" {
		c.SortBy = sortBy
	} else {
		c.SortBy = "name"
	}
	c.SortDesc = argString(args, "sort_order") == "desc"

	return c, applied
}

func searchMessage(count, limit, total int, applied map[string]any) string {
	if count == 0 {
		return "No apparels found matching your criteria."
	}

	var parts []string
	for key, value := range applied {
		label := strings.ReplaceAll(key, "_", " ")
		if list, ok := value.([]string); ok {
			parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(list, " or ")))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %v", label, value))
		}
	}

	var msg string
	if len(parts) > 0 {
		msg = fmt.Sprintf("Found %d apparel(s) matching: %s", count, strings.Join(parts, ", "))
	} else {
		msg = fmt.Sprintf("Found %d apparel(s) from our collection", count)
	}
	if count == limit && total > limit {
		msg += fmt.Sprintf(" (showing first %d of possibly more results)", limit)
	}
	return msg
}
