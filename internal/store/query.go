package store

import (
	"fmt"
	"strings"
)

const selectColumns = "id, name, category, price, fabric, fit, color_or_print, pattern, " +
	"sleeve_length, neckline, length, pant_type, available_sizes, style, occasion"

// textColumn pairs a criteria field with its table column, in the order the
// WHERE clause is built. Order is fixed so generated SQL is deterministic.
type textColumn struct {
	column string
	values func(c SearchCriteria) []string
}

var textColumns = []textColumn{
	{"category", func(c SearchCriteria) []string { return c.Category }},
	{"color_or_print", func(c SearchCriteria) []string { return c.ColorOrPrint }},
	{"fabric", func(c SearchCriteria) []string { return c.Fabric }},
	{"fit", func(c SearchCriteria) []string { return c.Fit }},
	{"occasion", func(c SearchCriteria) []string { return c.Occasion }},
	{"sleeve_length", func(c SearchCriteria) []string { return c.SleeveLength }},
	{"neckline", func(c SearchCriteria) []string { return c.Neckline }},
	{"length", func(c SearchCriteria) []string { return c.Length }},
	{"pant_type", func(c SearchCriteria) []string { return c.PantType }},
}

// buildSearchQuery renders the criteria to a parameterized SELECT. Text
// fields use case-insensitive partial matching; multiple values for one field
// are ORed together. Size is exact membership in available_sizes, price is an
// inclusive range.
func buildSearchQuery(c SearchCriteria) (string, []any) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, tc := range textColumns {
		values := tc.values(c)
		if len(values) == 0 {
			continue
		}
		var ors []string
		for _, v := range values {
			ors = append(ors, fmt.Sprintf("%s ILIKE %s", tc.column, arg("%"+v+"%")))
		}
		if len(ors) == 1 {
			where = append(where, ors[0])
		} else {
			where = append(where, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if c.Size != "" {
		where = append(where, fmt.Sprintf("%s = ANY(available_sizes)", arg(c.Size)))
	}
	if c.MinPrice != nil {
		where = append(where, fmt.Sprintf("price >= %s", arg(*c.MinPrice)))
	}
	if c.MaxPrice != nil {
		where = append(where, fmt.Sprintf("price <= %s", arg(*c.MaxPrice)))
	}

	sql := "SELECT " + selectColumns + " FROM apparels"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}

	sortBy := c.SortBy
	switch sortBy {
	case "name", "price", "id":
	default:
		sortBy = "name"
	}
	sql += " ORDER BY " + sortBy
	if c.SortDesc {
		sql += " DESC"
	}

	limit := c.Limit
	if limit <= 0 {
		limit = 20
	}
	sql += fmt.Sprintf(" LIMIT %s", arg(limit))

	return sql, args
}
