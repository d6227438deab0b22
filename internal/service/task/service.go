// Package task manages the to-do list companion persisted under the
// "tasks" storage key.
package task

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tomm-ai/tomm-assistant/backend/internal/model/task"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyText    = errors.New("task text must not be empty")
)

// Service holds the task list in memory and snapshots it to storage on
// every mutation.
type Service struct {
	mu    sync.RWMutex
	store storage.Store
	tasks []task.Task
}

// NewService loads persisted tasks; malformed storage yields an empty
// list.
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
		tasks: loadTasks(store),
	}
}

// Tasks returns a copy of the list in insertion order.
func (s *Service) Tasks(_ context.Context) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		subs := make([]task.SubTask, len(t.SubTasks))
		copy(subs, t.SubTasks)
		t.SubTasks = subs
		copied[i] = t
	}
	return copied
}

// Add appends a new task.
func (s *Service) Add(_ context.Context, text string) (task.Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return task.Task{}, ErrEmptyText
	}

	created := task.Task{
		ID:       uuid.NewString(),
		Text:     trimmed,
		SubTasks: []task.SubTask{},
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.persistLocked()
	s.mu.Unlock()

	return created, nil
}

// AddSubTask appends a checklist entry under an existing task.
func (s *Service) AddSubTask(_ context.Context, taskID, text string) (task.SubTask, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return task.SubTask{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return task.SubTask{}, ErrTaskNotFound
	}

	sub := task.SubTask{ID: uuid.NewString(), Text: trimmed}
	s.tasks[idx].SubTasks = append(s.tasks[idx].SubTasks, sub)
	s.persistLocked()
	return sub, nil
}

// Toggle flips completion of a task, or of one of its sub-tasks when
// subTaskID is non-empty.
func (s *Service) Toggle(_ context.Context, taskID, subTaskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return ErrTaskNotFound
	}

	if subTaskID == "" {
		s.tasks[idx].Completed = !s.tasks[idx].Completed
		s.persistLocked()
		return nil
	}

	for i := range s.tasks[idx].SubTasks {
		if s.tasks[idx].SubTasks[i].ID == subTaskID {
			s.tasks[idx].SubTasks[i].Completed = !s.tasks[idx].SubTasks[i].Completed
			s.persistLocked()
			return nil
		}
	}
	return ErrTaskNotFound
}

// Delete removes a task.
func (s *Service) Delete(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return ErrTaskNotFound
	}

	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistLocked()
	return nil
}

func (s *Service) indexOf(taskID string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func (s *Service) persistLocked() {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		log.Printf("[task] marshal tasks: %v", err)
		return
	}
	if err := s.store.Set(storage.KeyTasks, data); err != nil {
		log.Printf("[task] persist tasks: %v", err)
	}
}

func loadTasks(store storage.Store) []task.Task {
	data, err := store.Get(storage.KeyTasks)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("[task] read tasks: %v", err)
		return nil
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Printf("[task] decode tasks: %v", err)
		return nil
	}
	return tasks
}
