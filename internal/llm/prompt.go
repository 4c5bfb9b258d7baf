package llm

import (
	"fmt"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

// promptMessage is a provider-neutral chat message. Only user and assistant
// roles survive flattening; providers relabel as needed.
type promptMessage struct {
	role    string // "user" or "assistant"
	content string
}

// flattenTurns relabels internal roles into the two-role vocabulary every
// provider understands. Tool turns are re-narrated as assistant-authored
// summaries so continuity survives providers without native tool-result
// support, and a system turn is merged into the first user message rather
// than sent on a separate channel.
func flattenTurns(turns []model.Turn) []promptMessage {
	var system string
	var msgs []promptMessage

	for _, turn := range turns {
		switch turn.Role {
		case model.RoleSystem:
			system = turn.Content
		case model.RoleUser:
			msgs = append(msgs, promptMessage{role: "user", content: turn.Content})
		case model.RoleAssistant:
			content := turn.Content
			if content == "" {
				content = "Let me help you with that."
			}
			msgs = append(msgs, promptMessage{role: "assistant", content: content})
		case model.RoleTool:
			name := turn.ToolName
			if name == "" {
				name = "tool"
			}
			msgs = append(msgs, promptMessage{
				role:    "assistant",
				content: fmt.Sprintf("I used the %s tool and got: %s", name, turn.Content),
			})
		}
	}

	if system != "" {
		if len(msgs) > 0 && msgs[0].role == "user" {
			msgs[0].content = fmt.Sprintf("%s\n\nUser: %s", system, msgs[0].content)
		} else {
			msgs = append([]promptMessage{{role: "user", content: system}}, msgs...)
		}
	}

	return msgs
}

// coerceParamType maps a schema parameter type to one the providers accept.
// Unknown types become string.
func coerceParamType(t string) string {
	switch t {
	case "string", "integer", "number", "boolean":
		return t
	default:
		return "string"
	}
}
