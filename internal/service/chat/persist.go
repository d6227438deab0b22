package chat

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

// Persisted payloads decode through raw intermediates so one malformed
// record drops only itself, not the whole collection.
type rawSession struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Messages  []json.RawMessage `json:"messages"`
	CreatedAt string            `json:"createdAt"`
	Persona   chat.Persona      `json:"persona"`
}

type rawMessage struct {
	ID          string    `json:"id"`
	Role        chat.Role `json:"role"`
	Content     string    `json:"content"`
	Timestamp   string    `json:"timestamp"`
	AudioData   string    `json:"audioData"`
	Suggestions []string  `json:"suggestions"`
}

// loadSessions reads the persisted snapshot. Absent or unreadable
// storage yields an empty collection.
func loadSessions(store storage.Store) []chat.Session {
	data, err := store.Get(storage.KeySessions)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("[chat] read sessions: %v", err)
		return nil
	}

	var raws []rawSession
	if err := json.Unmarshal(data, &raws); err != nil {
		log.Printf("[chat] decode sessions: %v", err)
		return nil
	}

	sessions := make([]chat.Session, 0, len(raws))
	for _, raw := range raws {
		session, ok := decodeSession(raw)
		if !ok {
			log.Printf("[chat] dropping malformed session record %q", raw.ID)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}

func decodeSession(raw rawSession) (chat.Session, bool) {
	if raw.ID == "" {
		return chat.Session{}, false
	}

	createdAt, err := parseInstant(raw.CreatedAt)
	if err != nil {
		return chat.Session{}, false
	}

	persona := raw.Persona
	if !persona.Valid() {
		persona = chat.PersonaStandard
	}

	messages := make([]chat.Message, 0, len(raw.Messages))
	for _, encoded := range raw.Messages {
		message, ok := decodeMessage(encoded)
		if !ok {
			log.Printf("[chat] dropping malformed message in session %q", raw.ID)
			continue
		}
		messages = append(messages, message)
	}

	return chat.Session{
		ID:        raw.ID,
		Title:     raw.Title,
		Messages:  messages,
		CreatedAt: createdAt,
		Persona:   persona,
	}, true
}

func decodeMessage(encoded json.RawMessage) (chat.Message, bool) {
	var raw rawMessage
	if err := json.Unmarshal(encoded, &raw); err != nil {
		return chat.Message{}, false
	}
	if raw.ID == "" || !raw.Role.Valid() {
		return chat.Message{}, false
	}

	// A message without a parseable timestamp is fatal to that record.
	timestamp, err := parseInstant(raw.Timestamp)
	if err != nil {
		return chat.Message{}, false
	}

	return chat.Message{
		ID:          raw.ID,
		Role:        raw.Role,
		Content:     raw.Content,
		Timestamp:   timestamp,
		AudioData:   raw.AudioData,
		Suggestions: raw.Suggestions,
	}, true
}

func parseInstant(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
