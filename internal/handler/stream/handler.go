package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	buddyService "github.com/attention-ai/doubtbuddy/backend/internal/service/buddy"
	"github.com/attention-ai/doubtbuddy/backend/pkg/utils"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Handler delivers a single Doubt Buddy turn as Server-Sent Events.
type Handler struct {
	buddySvc *buddyService.Service
	logger   *zap.Logger
}

// New creates a new stream handler
func New(buddySvc *buddyService.Service, log *zap.Logger) *Handler {
	return &Handler{
		buddySvc: buddySvc,
		logger:   logger.OrNop(log),
	}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event          string `json:"event"`
	Content        string `json:"content,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	Fallback       bool   `json:"fallback,omitempty"`
	Finished       bool   `json:"finished,omitempty"`
	Error          string `json:"error,omitempty"`
}

// HandleStreamRequest runs one turn and emits start, message and end events.
// Only request-level problems produce an error event; a failed assistant
// exchange arrives as a normal message flagged as fallback.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, conversationID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}

	utils.SetupSSEHeaders(w)

	h.send(w, flusher, StreamResponse{
		Event:          "start",
		ConversationID: conversationID,
		Content:        h.buddySvc.Profile().Name,
	})

	exchange, err := h.buddySvc.Ask(ctx, conversationID, userMessage)
	if err != nil {
		h.send(w, flusher, StreamResponse{
			Event:          "error",
			ConversationID: conversationID,
			Error:          fmt.Sprintf("turn failed: %v", err),
		})
		return err
	}

	h.send(w, flusher, StreamResponse{
		Event:          "message",
		ConversationID: conversationID,
		Content:        exchange.Assistant.Text,
		Fallback:       exchange.Assistant.Fallback,
	})

	h.send(w, flusher, StreamResponse{
		Event:          "end",
		ConversationID: conversationID,
		Finished:       true,
	})

	h.logger.Debug("stream completed", zap.String("conversation", conversationID))
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}
