// Package voice streams a stored voice reply to the client over a
// websocket as raw PCM frames.
package voice

import (
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tomm-ai/tomm-assistant/backend/internal/audio"
	chatservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/chat"
	"github.com/tomm-ai/tomm-assistant/backend/pkg/utils"
)

// frameBytes is 100ms of 16-bit mono audio at the fixed sample rate.
const frameBytes = audio.SampleRate / 10 * 2

// Handler serves voice playback websockets.
type Handler struct {
	sessions *chatservice.Service
	upgrader websocket.Upgrader
}

// New creates the voice handler.
func New(sessions *chatservice.Service) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes mounts the playback route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/{sessionID}/{messageID}", h.handlePlayback)
}

type controlFrame struct {
	Event      string `json:"event"`
	SampleRate int    `json:"sampleRate,omitempty"`
	Frames     int    `json:"frames,omitempty"`
}

// handlePlayback locates the message's audio payload and pushes it as
// binary frames bracketed by start/end control frames.
func (h *Handler) handlePlayback(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messageID := chi.URLParam(r, "messageID")

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	var encoded string
	found := false
	for _, msg := range session.Messages {
		if msg.ID == messageID {
			encoded = msg.AudioData
			found = true
			break
		}
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return
	}
	if encoded == "" {
		utils.RespondError(w, http.StatusNotFound, "message has no audio")
		return
	}

	pcm, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "stored audio is corrupt")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	frames := (len(pcm) + frameBytes - 1) / frameBytes
	if err := conn.WriteJSON(controlFrame{Event: "start", SampleRate: audio.SampleRate, Frames: frames}); err != nil {
		log.Printf("[voice] write start frame: %v", err)
		return
	}

	for offset := 0; offset < len(pcm); offset += frameBytes {
		end := offset + frameBytes
		if end > len(pcm) {
			end = len(pcm)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.BinaryMessage, pcm[offset:end]); err != nil {
			log.Printf("[voice] write audio frame: %v", err)
			return
		}
	}

	if err := conn.WriteJSON(controlFrame{Event: "end"}); err != nil {
		log.Printf("[voice] write end frame: %v", err)
	}
	log.Printf("[voice] streamed %d frames for session=%s message=%s", frames, sessionID, messageID)
}
