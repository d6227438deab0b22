package chat

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single conversational turn. Content is stored verbatim,
// including any [EMOTION:...] or [CARD] markers the assistant emits;
// the presentation layer strips those at render time.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	AudioData   string    `json:"audioData,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
}
