package agent

import (
	"context"

	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/pkg/metrics"
)

// RunStream executes the loop and returns a channel of incremental events.
// The channel is closed after a final completion event, which is emitted
// exactly once even when the run ends in error. If ctx is cancelled the
// emitter stops and closes the channel without blocking on the consumer.
func (l *Loop) RunStream(ctx context.Context, history []model.Turn) <-chan model.AgentEvent {
	events := make(chan model.AgentEvent, 16)

	go func() {
		defer close(events)

		st := newState(history, true)
		emit := func(ev model.AgentEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		l.run(ctx, st, emit)

		outcome := "ok"
		if st.terminationErr != nil {
			outcome = "error"
		}
		metrics.ChatRunsTotal.WithLabelValues("stream", outcome).Inc()

		emit(model.AgentEvent{Type: model.EventCompletion})
	}()

	return events
}
