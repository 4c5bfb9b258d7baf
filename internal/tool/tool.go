// Package tool defines the invocable tool capability, the registry the
// reasoning step advertises, and the dispatcher that contains failures.
package tool

import (
	"context"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

// Tool is the single capability every tool implementation satisfies: a
// published schema and invocation with named arguments.
type Tool interface {
	Schema() model.ToolSchema
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Registry holds the fixed tool set. It is built once at startup and read
// concurrently without locking.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates a registry over the given tools.
func NewRegistry(tools ...Tool) *Registry {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Schema().Name] = t
	}
	return &Registry{tools: tools, byName: byName}
}

// Schemas returns the published schemas in registration order.
func (r *Registry) Schemas() []model.ToolSchema {
	out := make([]model.ToolSchema, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.Schema()
	}
	return out
}

// Lookup resolves a tool by exact name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}
