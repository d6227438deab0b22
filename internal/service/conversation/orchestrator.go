// Package conversation sequences one user turn into one assistant
// turn: session creation, message appends, the gateway call, and voice
// playback.
package conversation

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomm-ai/tomm-assistant/backend/internal/audio"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/ai"
	chatservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/chat"
	settingsservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/settings"
)

// FallbackReply is appended verbatim when the gateway fails; failures
// are absorbed here and never surfaced as errors.
const FallbackReply = "Waduh, koneksi Tomm AI lagi terganggu. Coba lagi sebentar ya!"

var ErrEmptyMessage = errors.New("message is empty")

// Turn is the outcome of one SendMessage call.
type Turn struct {
	SessionID string       `json:"sessionId"`
	User      chat.Message `json:"user"`
	Assistant chat.Message `json:"assistant"`
}

// Orchestrator serializes message submission per session so concurrent
// sends can never interleave their turns within one history.
type Orchestrator struct {
	sessions *chatservice.Service
	settings *settingsservice.Service
	gateway  ai.Gateway
	player   audio.Player

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	inFlight atomic.Int32
}

// New wires the orchestrator. The gateway may be nil when the model
// backend is not configured; every turn then degrades to the fallback
// reply. A nil player disables playback.
func New(sessions *chatservice.Service, settings *settingsservice.Service, gateway ai.Gateway, player audio.Player) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		settings: settings,
		gateway:  gateway,
		player:   player,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Busy reports whether any gateway call is in flight, which the UI uses
// to gate duplicate submissions.
func (o *Orchestrator) Busy() bool {
	return o.inFlight.Load() > 0
}

// SendMessage performs one full turn. Empty or whitespace-only input is
// rejected with no state change and no gateway call. The user message
// is appended before the gateway call starts; the assistant message,
// or the fixed fallback on failure, is appended after it resolves.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}

	sessionID := o.sessions.ActiveID(ctx)
	if sessionID == "" {
		sessionID = o.sessions.CreateSession(ctx, text).ID
	}

	lock := o.sessionLock(sessionID)
	lock.Lock()

	session, err := o.sessions.GetSession(ctx, sessionID)
	for err != nil {
		// Deleted between selection and lock acquisition. The
		// replacement session must run under its own lock, otherwise a
		// concurrent send against it could interleave with this turn.
		lock.Unlock()
		o.dropSessionLock(sessionID)

		sessionID = o.sessions.CreateSession(ctx, text).ID
		lock = o.sessionLock(sessionID)
		lock.Lock()
		session, err = o.sessions.GetSession(ctx, sessionID)
	}
	defer lock.Unlock()

	o.inFlight.Add(1)
	defer o.inFlight.Add(-1)

	history := session.Messages

	userMsg, err := o.sessions.AppendMessage(ctx, sessionID, chat.Message{
		Role:      chat.RoleUser,
		Content:   text,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return Turn{}, err
	}

	cfg := o.settings.Current(ctx)
	reply := o.invokeGateway(ctx, history, text, cfg, session.Persona)

	assistantMsg, err := o.sessions.AppendMessage(ctx, sessionID, chat.Message{
		Role:        chat.RoleAssistant,
		Content:     reply.Text,
		Timestamp:   time.Now().UTC(),
		AudioData:   reply.AudioData,
		Suggestions: reply.Suggestions,
	})
	if errors.Is(err, chatservice.ErrSessionNotFound) {
		// The session was deleted while the call was in flight; the
		// late reply is abandoned, not an error.
		log.Printf("[conversation] session %s gone, dropping reply", sessionID)
		o.dropSessionLock(sessionID)
		return Turn{SessionID: sessionID, User: userMsg}, nil
	}
	if err != nil {
		return Turn{}, err
	}

	if cfg.VoiceEnabled && reply.AudioData != "" {
		go o.playAudio(reply.AudioData)
	}

	return Turn{SessionID: sessionID, User: userMsg, Assistant: assistantMsg}, nil
}

// invokeGateway absorbs every gateway failure into the fallback reply.
func (o *Orchestrator) invokeGateway(ctx context.Context, history []chat.Message, text string, cfg settings.AppSettings, persona chat.Persona) ai.Reply {
	if o.gateway == nil {
		log.Printf("[conversation] gateway unavailable, using fallback reply")
		return ai.Reply{Text: FallbackReply}
	}

	reply, err := o.gateway.SendPrompt(ctx, history, text, cfg, persona)
	if err != nil {
		log.Printf("[conversation] gateway call failed: %v", err)
		return ai.Reply{Text: FallbackReply}
	}
	return reply
}

// playAudio decodes and plays a voice reply. Any failure is logged and
// swallowed; playback never touches conversation state.
func (o *Orchestrator) playAudio(encoded string) {
	if o.player == nil {
		return
	}

	clip, err := audio.DecodeBase64PCM(encoded)
	if err != nil {
		log.Printf("[conversation] decode voice reply: %v", err)
		return
	}
	if err := o.player.Play(context.Background(), clip); err != nil {
		log.Printf("[conversation] play voice reply: %v", err)
	}
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	lock, ok := o.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[sessionID] = lock
	}
	return lock
}

// dropSessionLock forgets the lock of a deleted session so the map does
// not grow for the process lifetime. Goroutines already parked on the
// old mutex still acquire it, find the session gone, and move on.
func (o *Orchestrator) dropSessionLock(sessionID string) {
	o.mu.Lock()
	delete(o.locks, sessionID)
	o.mu.Unlock()
}
