package model

// EventType is the kind of an agent stream event.
type EventType string

const (
	EventContentDelta EventType = "content_delta"
	EventToolOutput   EventType = "tool_output"
	EventError        EventType = "error"
	EventCompletion   EventType = "completion"
)

// AgentEvent is one event observed from a streaming agent run. A completion
// event is always the last event of a run and occurs exactly once.
type AgentEvent struct {
	Type       EventType `json:"type"`
	Content    string    `json:"content,omitempty"`
	ToolName   string    `json:"tool_name,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ChatMessage is one history entry supplied by the caller.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body for the chat endpoints.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the synchronous chat result.
type ChatResponse struct {
	Response        string           `json:"response"`
	ToolInvocations []ToolInvocation `json:"tool_invocations"`
	Error           string           `json:"error,omitempty"`
}
