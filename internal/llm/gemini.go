package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient is the Gemini reasoning client.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: modelName}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Reason performs one blocking reasoning round trip.
func (c *GeminiClient) Reason(ctx context.Context, req *Request) (*Result, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, geminiContents(req.Turns), geminiConfig(req.Tools))
	if err != nil {
		return nil, err
	}
	return parseGeminiResponse(resp), nil
}

// ReasonStream performs one round trip, delivering text deltas through the
// callback.
func (c *GeminiClient) ReasonStream(ctx context.Context, req *Request, cb StreamCallback) (*Result, error) {
	result := &Result{}
	index := 0

	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, geminiContents(req.Turns), geminiConfig(req.Tools)) {
		if err != nil {
			return nil, err
		}
		for _, part := range candidateParts(resp) {
			if part.Text != "" {
				result.Text += part.Text
				if err := cb(part.Text, index); err != nil {
					return nil, err
				}
				index++
			}
			if part.FunctionCall != nil {
				result.ToolCalls = append(result.ToolCalls, toolCallFromFunction(part.FunctionCall, len(result.ToolCalls)))
			}
		}
	}

	if result.Text == "" && len(result.ToolCalls) == 0 {
		result.Text = FallbackText
		if err := cb(result.Text, index); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// geminiContents converts turn history to the Gemini content format. The
// assistant role is relabeled to "model".
func geminiContents(turns []model.Turn) []*genai.Content {
	msgs := flattenTurns(turns)
	contents := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		role := "user"
		if msg.role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.content}},
		})
	}
	return contents
}

// geminiConfig translates tool schemas into Gemini function declarations.
func geminiConfig(schemas []model.ToolSchema) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 2048,
	}

	if len(schemas) == 0 {
		return cfg
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(schemas))
	for _, schema := range schemas {
		properties := make(map[string]*genai.Schema, len(schema.Params))
		for _, p := range schema.Params {
			properties[p.Name] = &genai.Schema{
				Type:        geminiType(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        schema.Name,
			Description: schema.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
			},
		})
	}
	cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	return cfg
}

func geminiType(t string) genai.Type {
	switch coerceParamType(t) {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// parseGeminiResponse extracts text and tool calls from a response. Malformed
// or empty output degrades to the fallback text, never an error.
func parseGeminiResponse(resp *genai.GenerateContentResponse) *Result {
	result := &Result{}

	for _, part := range candidateParts(resp) {
		if part.Text != "" {
			result.Text += part.Text
		}
		if part.FunctionCall != nil {
			result.ToolCalls = append(result.ToolCalls, toolCallFromFunction(part.FunctionCall, len(result.ToolCalls)))
		}
	}

	if result.Text == "" && len(result.ToolCalls) == 0 {
		result.Text = FallbackText
	}
	return result
}

func candidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}

func toolCallFromFunction(fc *genai.FunctionCall, ordinal int) model.ToolCallRequest {
	id := fc.ID
	if id == "" {
		id = fmt.Sprintf("call_%d", ordinal+1)
	}
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	return model.ToolCallRequest{ID: id, Name: fc.Name, Arguments: args}
}
