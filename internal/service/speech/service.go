// Package speech synthesizes assistant voice replies over a websocket
// TTS endpoint. The synthesized payload is raw 16-bit little-endian
// PCM which is handed back base64-encoded, ready to store on a message.
package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomm-ai/tomm-assistant/backend/internal/config"
)

var ErrNoAudio = errors.New("speech: endpoint returned no audio")

// Service implements ai.Synthesizer against the configured endpoint.
type Service struct {
	cfg    config.SpeechConfig
	dialer *websocket.Dialer
}

// NewService returns a synthesizer bound to the endpoint in cfg.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// synthesisRequest opens a synthesis exchange.
type synthesisRequest struct {
	Text       string `json:"text"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sampleRate"`
	Encoding   string `json:"encoding"`
}

// controlFrame is a text frame from the endpoint; audio arrives as
// binary frames between "start" and "end".
type controlFrame struct {
	Event string `json:"event"`
	Error string `json:"error,omitempty"`
}

// Synthesize converts text into base64-encoded PCM using the given
// voice preset, falling back to the configured default voice.
func (s *Service) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoAudio
	}
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}

	header := http.Header{}
	if s.cfg.AccessToken != "" {
		header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	}

	conn, _, err := s.dialer.DialContext(ctx, s.cfg.Endpoint, header)
	if err != nil {
		return "", fmt.Errorf("dial speech endpoint: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Duration(s.cfg.Timeout) * time.Second)
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	request := synthesisRequest{
		Text:       text,
		Voice:      voice,
		SampleRate: s.cfg.SampleRate,
		Encoding:   "pcm_s16le",
	}
	if err := conn.WriteJSON(request); err != nil {
		return "", fmt.Errorf("send synthesis request: %w", err)
	}

	pcm, err := s.collectAudio(ctx, conn)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}

	log.Printf("[speech] synthesized %d bytes for voice=%s", len(pcm), voice)
	return base64.StdEncoding.EncodeToString(pcm), nil
}

// collectAudio reads frames until the endpoint signals completion.
func (s *Service) collectAudio(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	var pcm []byte
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return pcm, nil
			}
			return nil, fmt.Errorf("read synthesis frame: %w", err)
		}

		switch messageType {
		case websocket.BinaryMessage:
			pcm = append(pcm, payload...)
		case websocket.TextMessage:
			var frame controlFrame
			if err := json.Unmarshal(payload, &frame); err != nil {
				return nil, fmt.Errorf("decode control frame: %w", err)
			}
			if frame.Error != "" {
				return nil, fmt.Errorf("speech endpoint error: %s", frame.Error)
			}
			if frame.Event == "end" {
				return pcm, nil
			}
		}
	}
}
