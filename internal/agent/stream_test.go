package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibestyle/shopping-assistant/internal/llm"
	"github.com/vibestyle/shopping-assistant/internal/model"
)

func collectEvents(t *testing.T, events <-chan model.AgentEvent) []model.AgentEvent {
	t.Helper()
	var out []model.AgentEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, open := <-events:
			if !open {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func countEvents(events []model.AgentEvent, typ model.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestRunStreamCompletionIsAlwaysLast(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		toolCallResult("searchApparel"),
		{Text: "Here are your results."},
	}}
	loop := newTestLoop(client, &echoTool{name: "searchApparel", result: map[string]any{"success": true}})

	events := collectEvents(t, loop.RunStream(context.Background(), userTurn("search")))

	require.NotEmpty(t, events)
	assert.Equal(t, model.EventCompletion, events[len(events)-1].Type)
	assert.Equal(t, 1, countEvents(events, model.EventCompletion))
	assert.Equal(t, 1, countEvents(events, model.EventToolOutput))
	assert.GreaterOrEqual(t, countEvents(events, model.EventContentDelta), 1)
}

func TestRunStreamToolOutputEvent(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{
		toolCallResult("searchApparel"),
		{Text: "done"},
	}}
	loop := newTestLoop(client, &echoTool{name: "searchApparel", result: map[string]any{"success": true, "count": 3}})

	events := collectEvents(t, loop.RunStream(context.Background(), userTurn("search")))

	var toolEv *model.AgentEvent
	for i := range events {
		if events[i].Type == model.EventToolOutput {
			toolEv = &events[i]
			break
		}
	}
	require.NotNil(t, toolEv)
	assert.Equal(t, "searchApparel", toolEv.ToolName)
	assert.Equal(t, "call_0", toolEv.ToolCallID)
	assert.Contains(t, toolEv.Content, `"count":3`)
}

func TestRunStreamErrorPrecedesCompletion(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	loop := newTestLoop(client)

	events := collectEvents(t, loop.RunStream(context.Background(), userTurn("hi")))

	require.Len(t, events, 2)
	assert.Equal(t, model.EventError, events[0].Type)
	assert.Equal(t, "rate limited", events[0].Error)
	assert.Equal(t, model.EventCompletion, events[1].Type)
}

func TestRunStreamNoDeltasAfterError(t *testing.T) {
	client := &scriptedClient{err: errors.New("down")}
	loop := newTestLoop(client)

	events := collectEvents(t, loop.RunStream(context.Background(), userTurn("hi")))

	sawError := false
	for _, ev := range events {
		if ev.Type == model.EventError {
			sawError = true
		}
		if sawError {
			assert.NotEqual(t, model.EventContentDelta, ev.Type)
		}
	}
	assert.True(t, sawError)
}

func TestRunStreamStopsOnCancelledContext(t *testing.T) {
	client := &scriptedClient{script: []*llm.Result{{Text: "hello"}}}
	loop := newTestLoop(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := loop.RunStream(ctx, userTurn("hi"))

	// The emitter must terminate and close the channel even though nothing
	// consumes the events.
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-events:
			if !open {
				return
			}
		case <-timeout:
			t.Fatal("stream did not terminate after cancellation")
		}
	}
}
