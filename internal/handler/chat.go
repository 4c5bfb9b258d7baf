// Package handler exposes the chat service over HTTP.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vibestyle/shopping-assistant/internal/middleware"
	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/service"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
	"github.com/vibestyle/shopping-assistant/pkg/metrics"
)

// ChatHandler handles the chat endpoints.
type ChatHandler struct {
	chatService *service.ChatService
	log         *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	messages, ok := h.decodeMessages(w, r)
	if !ok {
		return
	}

	result := h.chatService.Submit(r.Context(), messages)

	writeJSON(w, http.StatusOK, model.ChatResponse{
		Response:        result.ResponseText,
		ToolInvocations: result.ToolInvocations,
		Error:           result.Error,
	})
}

// ChatStream handles POST /api/v1/chat/stream
// Emits the run as Server-Sent Events; the completion event is always last.
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	messages, ok := h.decodeMessages(w, r)
	if !ok {
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Track active connection
	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	ctx := r.Context()
	events := h.chatService.SubmitStream(ctx, messages)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := sendSSEEvent(w, flusher, string(ev.Type), ev); err != nil {
				h.log.Warn("failed to write SSE event", "error", err)
				return
			}
		}
	}
}

func (h *ChatHandler) decodeMessages(w http.ResponseWriter, r *http.Request) ([]model.ChatMessage, bool) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages is required")
		return nil, false
	}
	for _, msg := range req.Messages {
		if err := middleware.ValidateMessageContent(msg.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
	}
	return req.Messages, true
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
