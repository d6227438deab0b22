// Package chat owns the authoritative session collection: ordering,
// the active-session pointer, and durable snapshots.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidPersona  = errors.New("unknown persona")
)

const titlePrefixRunes = 30

// Service holds the in-memory session collection and mirrors every
// mutation to durable storage as a full snapshot. Sessions are kept
// newest first; message order within a session is append order.
type Service struct {
	mu       sync.RWMutex
	store    storage.Store
	sessions []chat.Session
	activeID string
}

// NewService loads persisted sessions from the store. A missing or
// malformed payload yields an empty collection, never an error.
func NewService(store storage.Store) *Service {
	return &Service{
		store:    store,
		sessions: loadSessions(store),
	}
}

// Sessions returns a copy of the collection in display order.
func (s *Service) Sessions(_ context.Context) []chat.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySessions(s.sessions)
}

// ActiveID returns the active session id, or "" when none is active.
func (s *Service) ActiveID(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// SetActive marks an existing session as active. An empty id clears
// the pointer, which is how "new chat" is expressed.
func (s *Service) SetActive(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		s.activeID = ""
		return nil
	}
	if s.indexOf(sessionID) < 0 {
		return ErrSessionNotFound
	}
	s.activeID = sessionID
	return nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return chat.Session{}, ErrSessionNotFound
	}
	return copySession(s.sessions[idx]), nil
}

// CreateSession provisions a session titled from the first message,
// inserts it at the front of the collection and marks it active.
func (s *Service) CreateSession(_ context.Context, firstMessageText string) chat.Session {
	session := chat.Session{
		ID:        uuid.NewString(),
		Title:     titleFrom(firstMessageText),
		Messages:  make([]chat.Message, 0, 8),
		CreatedAt: time.Now().UTC(),
		Persona:   chat.PersonaStandard,
	}

	s.mu.Lock()
	s.sessions = append([]chat.Session{session}, s.sessions...)
	s.activeID = session.ID
	s.persistLocked()
	s.mu.Unlock()

	return copySession(session)
}

// AppendMessage appends to the named session's history. The session may
// have been deleted while a gateway call was in flight; that surfaces
// as ErrSessionNotFound and the message is dropped.
func (s *Service) AppendMessage(_ context.Context, sessionID string, message chat.Message) (chat.Message, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return chat.Message{}, ErrSessionNotFound
	}

	s.sessions[idx].Messages = append(s.sessions[idx].Messages, message)
	s.persistLocked()
	return message, nil
}

// DeleteSession removes the session and clears the active pointer iff
// it pointed at the removed session.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.activeID == sessionID {
		s.activeID = ""
	}
	s.persistLocked()
	return nil
}

// RenameSession replaces the title. Empty or whitespace-only titles are
// rejected with no state change.
func (s *Service) RenameSession(_ context.Context, sessionID, newTitle string) error {
	trimmed := strings.TrimSpace(newTitle)
	if trimmed == "" {
		return ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions[idx].Title = trimmed
	s.persistLocked()
	return nil
}

// SetPersona updates the persona of a single session. It affects future
// model calls only.
func (s *Service) SetPersona(_ context.Context, sessionID string, persona chat.Persona) error {
	if !persona.Valid() {
		return ErrInvalidPersona
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions[idx].Persona = persona
	s.persistLocked()
	return nil
}

func (s *Service) indexOf(sessionID string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return i
		}
	}
	return -1
}

// persistLocked writes the full snapshot. Storage failures are logged
// and absorbed; the in-memory state stays authoritative.
func (s *Service) persistLocked() {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		log.Printf("[chat] marshal sessions: %v", err)
		return
	}
	if err := s.store.Set(storage.KeySessions, data); err != nil {
		log.Printf("[chat] persist sessions: %v", err)
	}
}

func titleFrom(text string) string {
	runes := []rune(text)
	if len(runes) > titlePrefixRunes {
		runes = runes[:titlePrefixRunes]
	}
	return string(runes) + "..."
}

func copySession(session chat.Session) chat.Session {
	messages := make([]chat.Message, len(session.Messages))
	copy(messages, session.Messages)
	session.Messages = messages
	return session
}

func copySessions(sessions []chat.Session) []chat.Session {
	copied := make([]chat.Session, len(sessions))
	for i, session := range sessions {
		copied[i] = copySession(session)
	}
	return copied
}
