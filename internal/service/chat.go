// Package service composes the agent loop with vibe mapping and catalog
// recommendations behind a transport-agnostic chat API.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vibestyle/shopping-assistant/internal/agent"
	"github.com/vibestyle/shopping-assistant/internal/catalog"
	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/vibe"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
)

const systemInstruction = `You are a fashion-savvy shopping assistant that helps customers find clothing based on their vibe descriptions.

CONVERSATION FLOW:
1. When a user asks for clothing with a vibe description (e.g., "something cute for brunch"), ask AT MOST 1-2 targeted follow-up questions to clarify their needs.
2. Focus follow-up questions on critical missing information like category, size, budget, or specific preferences.
3. After 1-2 follow-ups, provide product recommendations with clear justification.
4. NEVER ask more than 2 follow-up questions.

RESPONSE FORMATTING:
- Use clean, plain text without any formatting symbols like asterisks, bullets, or markdown
- Separate different products with clear line breaks
- Write in natural, conversational language
- Keep responses organized but simple
- If you receive a tool response with JSON format, use it to generate a list of products in a readable format
- If you receive a tool response with a list of products, ALWAYS SHOW APPAREL ID to the user for each product
- Start numbered lists with a new line and a number followed by a period

ATTRIBUTE MAPPING:
- Translate vibe terms like "casual," "elegant," or "cute" into structured attributes
- Map seasonal terms to appropriate fabrics and styles
- Infer preferences based on occasion mentions

RECOMMENDATIONS:
- Provide 3-5 specific product recommendations that match both explicit and inferred preferences
- Include a brief justification explaining why these items match their vibe
- Highlight key features that align with their request using plain text descriptions

Remember to maintain a helpful, knowledgeable tone and focus on understanding the shopper's needs efficiently.`

// vibeSeedLimit caps catalog picks injected into the instruction.
const vibeSeedLimit = 3

// ChatService turns transport-level messages into agent runs. The catalog is
// optional; without it vibe seeding still injects mapped attributes.
type ChatService struct {
	loop    *agent.Loop
	catalog *catalog.Catalog
	log     *logger.Logger
}

// NewChatService wires the agent loop and optional catalog recommender.
func NewChatService(loop *agent.Loop, cat *catalog.Catalog, log *logger.Logger) *ChatService {
	return &ChatService{loop: loop, catalog: cat, log: log}
}

// Submit runs one synchronous chat turn and returns the structured result.
func (s *ChatService) Submit(ctx context.Context, messages []model.ChatMessage) *agent.Result {
	return s.loop.Run(ctx, s.buildTurns(ctx, messages))
}

// SubmitStream runs one chat turn, emitting incremental events.
func (s *ChatService) SubmitStream(ctx context.Context, messages []model.ChatMessage) <-chan model.AgentEvent {
	return s.loop.RunStream(ctx, s.buildTurns(ctx, messages))
}

// buildTurns prefixes the system instruction, converts transport messages to
// turns, and skips messages whose role is unrecognized.
func (s *ChatService) buildTurns(ctx context.Context, messages []model.ChatMessage) []model.Turn {
	turns := []model.Turn{{Role: model.RoleSystem, Content: s.instruction(ctx, messages)}}
	for _, msg := range messages {
		role, ok := parseRole(msg.Role)
		if !ok {
			s.log.Warn("skipping message with unknown role", "role", msg.Role)
			continue
		}
		turns = append(turns, model.Turn{Role: role, Content: msg.Content})
	}
	return turns
}

func parseRole(raw string) (model.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user":
		return model.RoleUser, true
	case "assistant", "model":
		return model.RoleAssistant, true
	case "system":
		return model.RoleSystem, true
	case "tool":
		return model.RoleTool, true
	default:
		return "", false
	}
}

// instruction augments the base prompt with vibe context derived from the
// latest user message: the mapped attributes and, when a catalog is wired, a
// few top-scoring items to anchor recommendations.
func (s *ChatService) instruction(ctx context.Context, messages []model.ChatMessage) string {
	query := latestUserContent(messages)
	if query == "" {
		return systemInstruction
	}

	terms, attrs := vibe.MapQuery(query)
	if len(attrs) == 0 {
		return systemInstruction
	}

	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nVIBE CONTEXT (derived from the latest message):\n")
	fmt.Fprintf(&b, "- Detected vibe terms: %s\n", strings.Join(terms, ", "))
	for _, key := range sortedKeys(attrs) {
		fmt.Fprintf(&b, "- Preferred %s: %s\n", key, strings.Join(attrs[key], ", "))
	}

	if s.catalog != nil {
		picks, err := s.catalog.Recommend(ctx, attrs, vibeSeedLimit)
		if err != nil {
			s.log.Warn("vibe seeding skipped, catalog unavailable", "error", err)
		} else if len(picks) > 0 {
			b.WriteString("Catalog items matching this vibe:\n")
			for _, p := range picks {
				fmt.Fprintf(&b, "- %s: %s (%s, $%.2f)\n", p.Product.ID, p.Product.Name, p.Product.Category, p.Product.Price)
			}
		}
	}
	return b.String()
}

func latestUserContent(messages []model.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(strings.TrimSpace(messages[i].Role), "user") {
			return messages[i].Content
		}
	}
	return ""
}

func sortedKeys(attrs model.AttributeQuery) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
