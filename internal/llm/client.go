// Package llm adapts the conversation to external reasoning collaborators.
package llm

import (
	"context"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

// FallbackText is substituted when a collaborator returns neither text nor
// tool calls, or its output cannot be parsed.
const FallbackText = "I'm not sure how to respond to that."

// StreamCallback is called for each text delta during streaming, in
// generation order.
type StreamCallback func(delta string, index int) error

// Request is one reasoning round trip: the full turn history plus the
// schemas of the tools the collaborator may request.
type Request struct {
	Turns []model.Turn
	Tools []model.ToolSchema
}

// Result is the parsed collaborator output: plain text, structured tool-call
// requests, or both.
type Result struct {
	Text      string
	ToolCalls []model.ToolCallRequest
}

// Client is the interface for reasoning providers.
type Client interface {
	// Reason performs one blocking reasoning round trip.
	Reason(ctx context.Context, req *Request) (*Result, error)

	// ReasonStream performs one round trip, delivering text deltas through
	// the callback as they arrive.
	ReasonStream(ctx context.Context, req *Request, cb StreamCallback) (*Result, error)

	// Name returns the provider name.
	Name() string
}
