// Package store provides catalog data access.
package store

import (
	"context"
	"errors"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SearchCriteria is a boundary-level product filter. Text fields hold one or
// more values combined with OR; all populated fields combine with AND.
type SearchCriteria struct {
	Category     []string
	ColorOrPrint []string
	Fabric       []string
	Fit          []string
	Occasion     []string
	SleeveLength []string
	Neckline     []string
	Length       []string
	PantType     []string

	// Size must be an exact member of the product's availability set.
	Size string

	// Price bounds are inclusive.
	MinPrice *float64
	MaxPrice *float64

	Limit    int
	SortBy   string
	SortDesc bool
}

// Store is the catalog-access collaborator consumed by the tools and the
// scored filter.
type Store interface {
	// Search returns products matching the criteria, filtered at the data
	// boundary.
	Search(ctx context.Context, c SearchCriteria) ([]model.Product, error)

	// Get returns a single product by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Product, error)

	// List returns the whole catalog in display order.
	List(ctx context.Context) ([]model.Product, error)

	// Count returns the total number of products.
	Count(ctx context.Context) (int, error)
}
