package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient is the OpenAI reasoning client.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey, modelName string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  modelName,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Reason performs one blocking reasoning round trip.
func (c *OpenAIClient) Reason(ctx context.Context, req *Request) (*Result, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openaiMessages(req.Turns),
		Tools:       openaiTools(req.Tools),
		MaxTokens:   2048,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if len(resp.Choices) > 0 {
		msg := resp.Choices[0].Message
		result.Text = msg.Content
		for i, tc := range msg.ToolCalls {
			result.ToolCalls = append(result.ToolCalls, toolCallFromOpenAI(tc.ID, tc.Function.Name, tc.Function.Arguments, i))
		}
	}

	if result.Text == "" && len(result.ToolCalls) == 0 {
		result.Text = FallbackText
	}
	return result, nil
}

// ReasonStream performs one round trip, delivering text deltas through the
// callback. Tool-call fragments are accumulated by index and finalized when
// the stream ends.
func (c *OpenAIClient) ReasonStream(ctx context.Context, req *Request, cb StreamCallback) (*Result, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openaiMessages(req.Turns),
		Tools:       openaiTools(req.Tools),
		MaxTokens:   2048,
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	result := &Result{}
	index := 0

	type partialCall struct {
		id   string
		name string
		args string
	}
	var partials []partialCall

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			result.Text += delta.Content
			if err := cb(delta.Content, index); err != nil {
				return nil, err
			}
			index++
		}

		for _, tc := range delta.ToolCalls {
			pos := len(partials)
			if tc.Index != nil {
				pos = *tc.Index
			}
			for len(partials) <= pos {
				partials = append(partials, partialCall{})
			}
			if tc.ID != "" {
				partials[pos].id = tc.ID
			}
			if tc.Function.Name != "" {
				partials[pos].name = tc.Function.Name
			}
			partials[pos].args += tc.Function.Arguments
		}
	}

	for i, p := range partials {
		if p.name == "" {
			continue
		}
		result.ToolCalls = append(result.ToolCalls, toolCallFromOpenAI(p.id, p.name, p.args, i))
	}

	if result.Text == "" && len(result.ToolCalls) == 0 {
		result.Text = FallbackText
		if err := cb(result.Text, index); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// openaiMessages converts turn history to the OpenAI chat format.
func openaiMessages(turns []model.Turn) []openai.ChatCompletionMessage {
	msgs := flattenTurns(turns)
	out := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = openai.ChatCompletionMessage{
			Role:    msg.role,
			Content: msg.content,
		}
	}
	return out
}

// openaiTools translates tool schemas into OpenAI function definitions.
func openaiTools(schemas []model.ToolSchema) []openai.Tool {
	if len(schemas) == 0 {
		return nil
	}

	tools := make([]openai.Tool, 0, len(schemas))
	for _, schema := range schemas {
		properties := make(map[string]any, len(schema.Params))
		for _, p := range schema.Params {
			prop := map[string]any{"type": coerceParamType(p.Type)}
			if p.Description != "" {
				prop["description"] = p.Description
			}
			if len(p.Enum) > 0 {
				prop["enum"] = p.Enum
			}
			properties[p.Name] = prop
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        schema.Name,
				Description: schema.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
				},
			},
		})
	}
	return tools
}

// toolCallFromOpenAI parses one tool call, tolerating malformed argument
// JSON by degrading to empty arguments.
func toolCallFromOpenAI(id, name, rawArgs string, ordinal int) model.ToolCallRequest {
	if id == "" {
		id = fmt.Sprintf("call_%d", ordinal+1)
	}
	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			args = map[string]any{}
		}
	}
	return model.ToolCallRequest{ID: id, Name: name, Arguments: args}
}
