package audio

import (
	"context"
	"log"
)

// Player consumes a decoded clip. Playback is fire and forget: a
// failing player must never affect conversation state.
type Player interface {
	Play(ctx context.Context, clip Clip) error
}

// LogPlayer is the default Player on a headless server; it records the
// clip instead of rendering it. Browser clients play audio themselves
// from the message's audioData.
type LogPlayer struct{}

// Play logs the clip parameters.
func (LogPlayer) Play(_ context.Context, clip Clip) error {
	log.Printf("[audio] clip ready: %d samples, %.2fs at %d Hz", len(clip.Samples), clip.Duration(), clip.SampleRate)
	return nil
}
