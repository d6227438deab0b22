// Package storage provides the durable string-keyed document store the
// assistant persists its state into. Each key maps to one JSON payload
// which is overwritten wholesale on every save.
package storage

import "errors"

// Well-known storage keys.
const (
	KeySessions = "sessions"
	KeySettings = "settings"
	KeyTasks    = "tasks"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string-keyed durable document store. Implementations must
// be safe for concurrent use; writes apply last-writer-wins.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
