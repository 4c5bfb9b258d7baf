package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/store"
)

// DetailsName is the name of the apparel details tool.
const DetailsName = "getApparelDetails"

// DetailsTool retrieves one apparel item by ID.
type DetailsTool struct {
	store store.Store
}

// NewDetailsTool creates the apparel details tool.
func NewDetailsTool(st store.Store) *DetailsTool {
	return &DetailsTool{store: st}
}

// Schema publishes the details tool description.
func (t *DetailsTool) Schema() model.ToolSchema {
	return model.ToolSchema{
		Name:        DetailsName,
		Description: "Get complete details for a single apparel item by its ID, e.g. D001.",
		Params: []model.ToolParam{
			{Name: "id", Type: "string", Description: "The unique identifier of the apparel item"},
		},
	}
}

// Invoke looks up the item and returns the response envelope.
func (t *DetailsTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	id := strings.TrimSpace(argString(args, "id"))
	if id == "" {
		return map[string]any{
			"success": false,
			"apparel": nil,
			"message": "Please provide a valid apparel ID",
		}, nil
	}

	p, err := t.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return map[string]any{
				"success": false,
				"apparel": nil,
				"message": fmt.Sprintf("No apparel found with ID: %s", id),
			}, nil
		}
		return nil, fmt.Errorf("lookup failed: %w", err)
	}

	return map[string]any{
		"success": true,
		"apparel": p,
		"message": fmt.Sprintf("Found details for %s", p.Name),
	}, nil
}
