// Package model defines data structures shared across the assistant.
package model

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Turn is a single conversation turn. Turns are append-only: once added to a
// conversation they are never mutated.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant turns that requested tool invocations.
	ToolCalls []ToolCallRequest `json:"tool_calls,omitempty"`

	// SourceToolCallID links a tool turn back to the request it answers.
	SourceToolCallID string `json:"source_tool_call_id,omitempty"`

	// ToolName is set on tool turns for prompt re-narration.
	ToolName string `json:"tool_name,omitempty"`
}

// ToolCallRequest is a structured tool invocation requested by the reasoning
// step. The ID is unique within one reasoning step's output.
type ToolCallRequest struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolInvocation records one dispatched tool call and its result.
type ToolInvocation struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    string         `json:"result"`
}

// ToolParam describes one parameter of a tool schema.
type ToolParam struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, integer, number, boolean
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolSchema is the published description of an invocable tool.
type ToolSchema struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ToolParam `json:"params"`
}
