// Package settings persists user preferences and merges partial
// updates over the current record.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

// Service holds the current AppSettings and writes the full record to
// storage on every change.
type Service struct {
	mu      sync.RWMutex
	store   storage.Store
	current settings.AppSettings
}

// NewService loads persisted settings merged over the hard-coded
// defaults. Missing keys or malformed payloads fall back to defaults.
func NewService(store storage.Store) *Service {
	return &Service{
		store:   store,
		current: loadSettings(store),
	}
}

// Current returns the settings snapshot.
func (s *Service) Current(_ context.Context) settings.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update shallow-merges the patch into the current settings, persists
// the result and returns it.
func (s *Service) Update(_ context.Context, patch settings.Patch) settings.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = settings.Merge(s.current, patch)
	s.persistLocked()
	return s.current
}

func (s *Service) persistLocked() {
	data, err := json.Marshal(s.current)
	if err != nil {
		log.Printf("[settings] marshal settings: %v", err)
		return
	}
	if err := s.store.Set(storage.KeySettings, data); err != nil {
		log.Printf("[settings] persist settings: %v", err)
	}
}

func loadSettings(store storage.Store) settings.AppSettings {
	defaults := settings.Defaults()

	data, err := store.Get(storage.KeySettings)
	if errors.Is(err, storage.ErrNotFound) {
		return defaults
	}
	if err != nil {
		log.Printf("[settings] read settings: %v", err)
		return defaults
	}

	// Unknown fields in the payload are ignored; missing fields keep
	// their default because decoding starts from the defaults record.
	current := defaults
	if err := json.Unmarshal(data, &current); err != nil {
		log.Printf("[settings] decode settings: %v", err)
		return defaults
	}
	return settings.Sanitize(current)
}
