// Package ai is the boundary to the remote text/speech generation
// service. The rest of the application only sees the Gateway contract;
// the Ark-backed implementation lives in service.go.
package ai

import (
	"context"

	"github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
)

// Reply is the gateway result after post-processing. Text never carries
// the trailing SUGGESTIONS line; suggestions are split off before the
// message is appended to a session, since stored content is never
// re-parsed.
type Reply struct {
	Text        string
	Suggestions []string
	AudioData   string
}

// Gateway sends one user turn to the model and returns the processed
// reply.
type Gateway interface {
	SendPrompt(ctx context.Context, history []chat.Message, text string, cfg settings.AppSettings, persona chat.Persona) (Reply, error)
}

// Synthesizer produces base64-encoded 16-bit little-endian PCM mono at
// 24000 Hz for the given text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (string, error)
}
