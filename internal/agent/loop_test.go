package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibestyle/shopping-assistant/internal/llm"
	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/tool"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
)

// scriptedClient replays canned reasoning results in order. The final entry
// repeats if the loop asks for more.
type scriptedClient struct {
	script []*llm.Result
	err    error
	calls  int
	reqs   []*llm.Request
}

func (c *scriptedClient) next(req *llm.Request) (*llm.Result, error) {
	c.calls++
	c.reqs = append(c.reqs, req)
	if c.err != nil {
		return nil, c.err
	}
	idx := c.calls - 1
	if idx >= len(c.script) {
		idx = len(c.script) - 1
	}
	return c.script[idx], nil
}

func (c *scriptedClient) Reason(ctx context.Context, req *llm.Request) (*llm.Result, error) {
	return c.next(req)
}

func (c *scriptedClient) ReasonStream(ctx context.Context, req *llm.Request, cb llm.StreamCallback) (*llm.Result, error) {
	res, err := c.next(req)
	if err != nil {
		return nil, err
	}
	if res.Text != "" {
		if cbErr := cb(res.Text, 0); cbErr != nil {
			return nil, cbErr
		}
	}
	return res, nil
}

func (c *scriptedClient) Name() string { return "scripted" }

// echoTool returns a fixed result; failTool always errors.
type echoTool struct {
	name   string
	result any
	err    error
}

func (e *echoTool) Schema() model.ToolSchema {
	return model.ToolSchema{Name: e.name}
}

func (e *echoTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return e.result, e.err
}

func newTestLoop(client llm.Client, tools ...tool.Tool) *Loop {
	return NewLoop(client, tool.NewRegistry(tools...), logger.NewNop(), 0)
}

func userTurn(content string) []model.Turn {
	return []model.Turn{{Role: model.RoleUser, Content: content}}
}

func toolCallResult(name string) *llm.Result {
	return &llm.Result{ToolCalls: []model.ToolCallRequest{{ID: "call_0", Name: name}}}
}

func TestRunPlainTextAnswer(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{{Text: "Hello! How can I help?"}}}
	loop := newTestLoop(client)

	result := loop.Run(context.Background(), userTurn("hi"))

	assert.Equal(t, "Hello! How can I help?", result.ResponseText)
	assert.Empty(t, result.ToolInvocations)
	assert.Empty(t, result.Error)
	assert.Equal(t, 1, client.calls)
}

func TestRunToolCallThenAnswer(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		toolCallResult("searchApparel"),
		{Text: "I found 2 dresses for you."},
	}}
	loop := newTestLoop(client, &echoTool{
		name:   "searchApparel",
		result: map[string]any{"success": true, "count": 2},
	})

	result := loop.Run(context.Background(), userTurn("find dresses"))

	assert.Equal(t, "I found 2 dresses for you.", result.ResponseText)
	require.Len(t, result.ToolInvocations, 1)
	assert.Equal(t, "searchApparel", result.ToolInvocations[0].ToolName)
	assert.Contains(t, result.ToolInvocations[0].Result, `"count":2`)
	assert.Equal(t, 2, client.calls)

	// The second reasoning request must include the appended tool turn.
	secondReq := client.reqs[1]
	last := secondReq.Turns[len(secondReq.Turns)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Equal(t, "searchApparel", last.ToolName)
	assert.Equal(t, "call_0", last.SourceToolCallID)
}

func TestRunEnforcesInvocationBound(t *testing.T) {
	// The collaborator asks for a tool on every step; the run must stop after
	// three dispatches plus one final reasoning step.
	client := &scriptedClient{script: []*llm.Result{toolCallResult("searchApparel")}}
	loop := newTestLoop(client, &echoTool{name: "searchApparel", result: map[string]any{"success": true}})

	result := loop.Run(context.Background(), userTurn("keep searching"))

	assert.Len(t, result.ToolInvocations, 3)
	assert.Equal(t, 4, client.calls)
	assert.Empty(t, result.Error)
	// No assistant turn ever carried text, so the fallback applies.
	assert.Equal(t, llm.FallbackText, result.ResponseText)
}

func TestRunKeepsOnlyFirstToolCall(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		{ToolCalls: []model.ToolCallRequest{
			{ID: "call_0", Name: "searchApparel"},
			{ID: "call_1", Name: "getApparelDetails"},
		}},
		{Text: "done"},
	}}
	loop := newTestLoop(client,
		&echoTool{name: "searchApparel", result: map[string]any{"success": true}},
		&echoTool{name: "getApparelDetails", result: map[string]any{"success": true}},
	)

	result := loop.Run(context.Background(), userTurn("search"))

	require.Len(t, result.ToolInvocations, 1)
	assert.Equal(t, "searchApparel", result.ToolInvocations[0].ToolName)
}

func TestRunToolFailureIsConversational(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		toolCallResult("searchApparel"),
		{Text: "Sorry, the catalog seems to be unavailable right now."},
	}}
	loop := newTestLoop(client, &echoTool{
		name: "searchApparel",
		err:  errors.New("catalog unavailable: connection refused"),
	})

	result := loop.Run(context.Background(), userTurn("find dresses"))

	// A failing tool does not end the run or surface as a run error.
	assert.Empty(t, result.Error)
	require.Len(t, result.ToolInvocations, 1)
	assert.Contains(t, result.ToolInvocations[0].Result, `"success":false`)
	assert.Equal(t, "Sorry, the catalog seems to be unavailable right now.", result.ResponseText)
}

func TestRunUnknownToolIsConversational(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		toolCallResult("imaginaryTool"),
		{Text: "Let me try a different approach."},
	}}
	loop := newTestLoop(client)

	result := loop.Run(context.Background(), userTurn("do magic"))

	assert.Empty(t, result.Error)
	require.Len(t, result.ToolInvocations, 1)
	assert.Contains(t, result.ToolInvocations[0].Result, "not found")
}

func TestRunReasoningFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	loop := newTestLoop(client)

	result := loop.Run(context.Background(), userTurn("hi"))

	assert.Equal(t, apologyText, result.ResponseText)
	assert.Equal(t, "rate limited", result.Error)
	assert.Empty(t, result.ToolInvocations)
}

func TestRunWithoutClient(t *testing.T) {
	loop := newTestLoop(nil)

	result := loop.Run(context.Background(), userTurn("hi"))

	assert.Equal(t, apologyText, result.ResponseText)
	assert.NotEmpty(t, result.Error)
}

func TestRunCottonShirtScenario(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		{ToolCalls: []model.ToolCallRequest{{
			ID:   "call_0",
			Name: "searchApparel",
			Arguments: map[string]any{
				"fabric":    "cotton",
				"category":  "shirt",
				"size":      "M",
				"max_price": 50.0,
			},
		}}},
		{Text: "I recommend the Classic Cotton Shirt (S001) or the Oxford Button-Down (S002), both under $50."},
	}}
	loop := newTestLoop(client, &echoTool{
		name: "searchApparel",
		result: map[string]any{
			"success": true,
			"count":   2,
			"apparels": []map[string]any{
				{"id": "S001", "name": "Classic Cotton Shirt"},
				{"id": "S002", "name": "Oxford Button-Down"},
			},
		},
	})

	result := loop.Run(context.Background(), userTurn("find me a cotton shirt in size M under $50"))

	assert.Contains(t, result.ResponseText, "recommend")
	require.Len(t, result.ToolInvocations, 1)
	assert.Equal(t, "cotton", result.ToolInvocations[0].Arguments["fabric"])
	assert.Empty(t, result.Error)
}

func TestRunEmptyResultUsesFallbackText(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{{}}}
	loop := newTestLoop(client)

	result := loop.Run(context.Background(), userTurn("hi"))

	assert.Equal(t, llm.FallbackText, result.ResponseText)
	assert.Empty(t, result.Error)
}
