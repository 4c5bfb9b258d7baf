package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
	"github.com/vibestyle/shopping-assistant/pkg/metrics"
)

// Dispatcher resolves and invokes tool-call requests. It treats tools as an
// opaque capability set: name resolution and invocation only. Every failure
// mode is converted to a {success:false, message} payload so the conversation
// can continue; nothing propagates to the caller.
type Dispatcher struct {
	registry *Registry
	log      *logger.Logger
}

// NewDispatcher creates a dispatcher over the registry.
func NewDispatcher(registry *Registry, log *logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// Dispatch executes one tool-call request and returns the stringified result.
func (d *Dispatcher) Dispatch(ctx context.Context, call model.ToolCallRequest) string {
	t, ok := d.registry.Lookup(call.Name)
	if !ok {
		d.log.Warn("tool not found", "tool", call.Name)
		metrics.ToolInvocationsTotal.WithLabelValues(call.Name, "not_found").Inc()
		return failurePayload(fmt.Sprintf("tool %q not found", call.Name))
	}

	result, err := d.invoke(ctx, t, call.Arguments)
	if err != nil {
		d.log.Error("tool invocation failed", "tool", call.Name, "error", err)
		metrics.ToolInvocationsTotal.WithLabelValues(call.Name, "error").Inc()
		return failurePayload(err.Error())
	}

	data, err := json.Marshal(result)
	if err != nil {
		d.log.Error("tool result not serializable", "tool", call.Name, "error", err)
		metrics.ToolInvocationsTotal.WithLabelValues(call.Name, "error").Inc()
		return failurePayload("tool result could not be serialized")
	}

	metrics.ToolInvocationsTotal.WithLabelValues(call.Name, "ok").Inc()
	return string(data)
}

// invoke runs the tool and converts panics into errors so a misbehaving tool
// cannot take down a conversation.
func (d *Dispatcher) invoke(ctx context.Context, t Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return t.Invoke(ctx, args)
}

func failurePayload(message string) string {
	data, _ := json.Marshal(map[string]any{
		"success": false,
		"message": message,
	})
	return string(data)
}
