// Package stream delivers one conversational turn over Server-Sent
// Events so the client can show progress while the gateway call is in
// flight.
package stream

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomm-ai/tomm-assistant/backend/internal/analysis/reply"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/conversation"
	"github.com/tomm-ai/tomm-assistant/backend/pkg/utils"
)

// Handler streams turn events.
type Handler struct {
	orchestrator *conversation.Orchestrator
}

// New creates the stream handler.
func New(orchestrator *conversation.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// Event is one streamed chunk.
type Event struct {
	Event     string   `json:"event"`
	SessionID string   `json:"sessionId,omitempty"`
	Content   string   `json:"content,omitempty"`
	Items     []string `json:"items,omitempty"`
	Finished  bool     `json:"finished,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// HandleTurn runs a full turn for the message query parameter and
// replays it as start/message/suggestions/end events.
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	message := r.URL.Query().Get("message")

	utils.SetupSSEHeaders(w)
	utils.SendSSEChunk(w, flusher, Event{Event: "start"})

	turn, err := h.orchestrator.SendMessage(r.Context(), message)
	if err != nil {
		status := "internal error"
		if errors.Is(err, conversation.ErrEmptyMessage) {
			status = err.Error()
		}
		utils.SendSSEChunk(w, flusher, Event{Event: "error", Error: status})
		return
	}

	view := reply.Analyze(turn.Assistant.Content)

	utils.SendSSEChunk(w, flusher, Event{
		Event:     "message",
		SessionID: turn.SessionID,
		Content:   turn.Assistant.Content,
	})
	if view.Emotion != "" {
		utils.SendSSEChunk(w, flusher, Event{
			Event:     "emotion",
			SessionID: turn.SessionID,
			Content:   view.Emotion,
		})
	}
	if len(turn.Assistant.Suggestions) > 0 {
		utils.SendSSEChunk(w, flusher, Event{
			Event:     "suggestions",
			SessionID: turn.SessionID,
			Items:     turn.Assistant.Suggestions,
		})
	}
	if turn.Assistant.AudioData != "" {
		utils.SendSSEChunk(w, flusher, Event{
			Event:     "audio",
			SessionID: turn.SessionID,
			Content:   fmt.Sprintf("/api/voice/%s/%s", turn.SessionID, turn.Assistant.ID),
		})
	}

	utils.SendSSEChunk(w, flusher, Event{
		Event:     "end",
		SessionID: turn.SessionID,
		Finished:  true,
	})
}
