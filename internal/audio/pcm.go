// Package audio decodes the gateway's voice payloads: base64-encoded
// 16-bit little-endian PCM, mono, 24000 Hz.
package audio

import (
	"encoding/base64"
	"fmt"
)

// SampleRate is the fixed output rate of the speech model.
const SampleRate = 24000

// Clip is a decoded mono audio clip with samples normalized to
// [-1.0, 1.0).
type Clip struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// DecodeBase64PCM decodes a base64 payload of little-endian int16
// samples into a normalized clip.
func DecodeBase64PCM(encoded string) (Clip, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Clip{}, fmt.Errorf("decode base64 audio: %w", err)
	}
	return DecodePCM(raw)
}

// DecodePCM converts raw little-endian int16 bytes into a normalized
// clip. A trailing odd byte is rejected as a truncated payload.
func DecodePCM(raw []byte) (Clip, error) {
	if len(raw)%2 != 0 {
		return Clip{}, fmt.Errorf("truncated pcm payload: %d bytes", len(raw))
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		sample := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(sample) / 32768.0
	}

	return Clip{Samples: samples, SampleRate: SampleRate}, nil
}
