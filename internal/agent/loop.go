// Package agent implements the bounded tool-calling orchestration loop.
//
// A run alternates two phases: REASON, one round trip to the reasoning
// collaborator, and ACT, one tool dispatch. A router evaluated after every
// REASON decides whether to act again or finish. The loop is single-threaded
// within a run; each phase is fully awaited before the next starts.
package agent

import (
	"context"
	"errors"
	"time"

	"github.com/vibestyle/shopping-assistant/internal/llm"
	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/tool"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
	"github.com/vibestyle/shopping-assistant/pkg/metrics"
)

// maxToolInvocations bounds tool round-trips per run. The cap is a latency
// and cost bound; hitting it terminates the run with whatever text the last
// reasoning step produced.
const maxToolInvocations = 3

const apologyText = "I encountered an error processing your request. Please try again."

var errNoClient = errors.New("reasoning collaborator not configured")

// Loop drives the reasoning/tool alternation. It is safe for concurrent use:
// all per-run state lives in a conversationState owned by one run.
type Loop struct {
	client     llm.Client
	dispatcher *tool.Dispatcher
	schemas    []model.ToolSchema
	log        *logger.Logger

	// llmTimeout bounds one reasoning round trip; zero relies on the
	// collaborator's own limits.
	llmTimeout time.Duration
}

// NewLoop creates a loop over the given collaborator and tool registry. The
// client may be nil, in which case every run degrades to the apology text.
func NewLoop(client llm.Client, registry *tool.Registry, log *logger.Logger, llmTimeout time.Duration) *Loop {
	return &Loop{
		client:     client,
		dispatcher: tool.NewDispatcher(registry, log),
		schemas:    registry.Schemas(),
		log:        log,
		llmTimeout: llmTimeout,
	}
}

// Result is the structured outcome of a run. Run never returns an error;
// failures surface here as a non-empty Error alongside apology text.
type Result struct {
	ResponseText    string                 `json:"response"`
	Turns           []model.Turn           `json:"turns"`
	ToolInvocations []model.ToolInvocation `json:"tool_invocations"`
	Error           string                 `json:"error,omitempty"`
}

// conversationState is the per-run mutable state. It is constructed fresh
// from caller-supplied history, owned exclusively by one run, and discarded
// when the run returns.
type conversationState struct {
	turns          []model.Turn
	pending        *model.ToolCallRequest
	invocations    []model.ToolInvocation
	terminationErr error
	streaming      bool
}

func newState(history []model.Turn, streaming bool) *conversationState {
	st := &conversationState{streaming: streaming}
	st.turns = append(st.turns, history...)
	return st
}

func (st *conversationState) append(turn model.Turn) {
	st.turns = append(st.turns, turn)
}

// Run executes the loop synchronously and returns a structured result.
func (l *Loop) Run(ctx context.Context, history []model.Turn) *Result {
	st := newState(history, false)
	l.run(ctx, st, nil)

	result := l.result(st)
	outcome := "ok"
	if result.Error != "" {
		outcome = "error"
	}
	metrics.ChatRunsTotal.WithLabelValues("sync", outcome).Inc()
	return result
}

type emitFunc func(model.AgentEvent)

// run drives the state machine until a terminal state. emit is nil for
// synchronous runs.
func (l *Loop) run(ctx context.Context, st *conversationState, emit emitFunc) {
	for {
		l.reason(ctx, st, emit)

		// Router: error ends the run; a pending tool call proceeds to ACT
		// only while the invocation budget holds.
		if st.terminationErr != nil {
			if emit != nil {
				emit(model.AgentEvent{Type: model.EventError, Error: st.terminationErr.Error()})
			}
			return
		}
		if st.pending == nil {
			return
		}
		if len(st.invocations) >= maxToolInvocations {
			l.log.Warn("tool invocation budget exhausted, terminating",
				"invocations", len(st.invocations), "pending_tool", st.pending.Name)
			return
		}

		l.act(ctx, st, emit)
	}
}

// reason performs one REASON phase. Collaborator failures never escape: they
// become terminationErr plus an apology turn.
func (l *Loop) reason(ctx context.Context, st *conversationState, emit emitFunc) {
	req := &llm.Request{Turns: st.turns, Tools: l.schemas}

	rctx := ctx
	if l.llmTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, l.llmTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := l.requestReasoning(rctx, req, emit)

	provider := "none"
	if l.client != nil {
		provider = l.client.Name()
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordReasoning(provider, status, time.Since(start).Seconds())

	if err != nil {
		l.log.Error("reasoning step failed", "provider", provider, "error", err)
		st.terminationErr = err
		st.pending = nil
		st.append(model.Turn{Role: model.RoleAssistant, Content: apologyText})
		return
	}

	if len(res.ToolCalls) > 0 {
		// Only the first request is dispatched; one tool per reasoning step.
		first := res.ToolCalls[0]
		if len(res.ToolCalls) > 1 {
			l.log.Debug("discarding extra tool-call requests", "kept", first.Name, "discarded", len(res.ToolCalls)-1)
		}
		st.pending = &first
		st.append(model.Turn{Role: model.RoleAssistant, Content: res.Text, ToolCalls: res.ToolCalls})
		return
	}

	text := res.Text
	if text == "" {
		text = llm.FallbackText
	}
	st.pending = nil
	st.append(model.Turn{Role: model.RoleAssistant, Content: text})
}

func (l *Loop) requestReasoning(ctx context.Context, req *llm.Request, emit emitFunc) (*llm.Result, error) {
	if l.client == nil {
		return nil, errNoClient
	}
	if emit == nil {
		return l.client.Reason(ctx, req)
	}
	return l.client.ReasonStream(ctx, req, func(delta string, _ int) error {
		emit(model.AgentEvent{Type: model.EventContentDelta, Content: delta})
		return nil
	})
}

// act performs one ACT phase: dispatch the pending call, append the tool
// turn, record the invocation. Tool failures are conversational content, not
// run-ending faults; the dispatcher has already contained them.
func (l *Loop) act(ctx context.Context, st *conversationState, emit emitFunc) {
	call := *st.pending
	st.pending = nil

	result := l.dispatcher.Dispatch(ctx, call)

	st.append(model.Turn{
		Role:             model.RoleTool,
		Content:          result,
		SourceToolCallID: call.ID,
		ToolName:         call.Name,
	})
	st.invocations = append(st.invocations, model.ToolInvocation{
		ToolName:  call.Name,
		Arguments: call.Arguments,
		Result:    result,
	})

	// Tool-output events refer to fully appended turns only.
	if emit != nil {
		emit(model.AgentEvent{
			Type:       model.EventToolOutput,
			Content:    result,
			ToolName:   call.Name,
			ToolCallID: call.ID,
		})
	}
}

// result extracts the structured outcome. When the run was cut off by the
// invocation budget while a tool call was still pending, the response falls
// back to the last assistant text, or the fallback text if none exists.
func (l *Loop) result(st *conversationState) *Result {
	text := ""
	for i := len(st.turns) - 1; i >= 0; i-- {
		if st.turns[i].Role == model.RoleAssistant && st.turns[i].Content != "" {
			text = st.turns[i].Content
			break
		}
	}
	if text == "" {
		text = llm.FallbackText
	}

	result := &Result{
		ResponseText:    text,
		Turns:           st.turns,
		ToolInvocations: st.invocations,
	}
	if st.terminationErr != nil {
		result.Error = st.terminationErr.Error()
	}
	return result
}
