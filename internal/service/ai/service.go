package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/tomm-ai/tomm-assistant/backend/internal/config"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
)

const historyLimit = 10

type runnable = compose.Runnable[map[string]any, *schema.Message]

// Service is the Ark-backed Gateway. It keeps one compiled chain per
// configured model: the default chat model plus an optional "pro"
// model used for coding conversations.
type Service struct {
	cfg       config.AIConfig
	chatChain runnable
	proChain  runnable
	synth     Synthesizer
}

// NewService compiles the prompt/model chains. The synthesizer may be
// nil, in which case replies never carry audio.
func NewService(ctx context.Context, cfg config.AIConfig, synth Synthesizer) (*Service, error) {
	chatChain, err := buildChain(ctx, cfg, cfg.ChatModel)
	if err != nil {
		return nil, fmt.Errorf("build chat chain: %w", err)
	}

	var proChain runnable
	if cfg.ProModel != "" && cfg.ProModel != cfg.ChatModel {
		proChain, err = buildChain(ctx, cfg, cfg.ProModel)
		if err != nil {
			return nil, fmt.Errorf("build pro chain: %w", err)
		}
	}

	return &Service{
		cfg:       cfg,
		chatChain: chatChain,
		proChain:  proChain,
		synth:     synth,
	}, nil
}

func buildChain(ctx context.Context, cfg config.AIConfig, modelName string) (runnable, error) {
	chatModel, err := cfg.NewChatModel(ctx, modelName)
	if err != nil {
		return nil, fmt.Errorf("create chat model %q: %w", modelName, err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	return chain.Compile(ctx)
}

// SendPrompt runs one user turn through the model. The trailing
// SUGGESTIONS line is split off here so stored content never needs
// re-parsing, and voice output is synthesized when enabled. A missing
// text payload degrades to an empty reply, not an error.
func (s *Service) SendPrompt(ctx context.Context, history []chat.Message, text string, cfg settings.AppSettings, persona chat.Persona) (Reply, error) {
	input := map[string]any{
		"system":  BuildSystemInstruction(cfg, persona),
		"history": buildHistoryMessages(history),
		"query":   text,
	}

	response, err := s.pickChain(cfg, persona).Invoke(ctx, input)
	if err != nil {
		return Reply{}, fmt.Errorf("run ai chain: %w", err)
	}

	raw := ""
	if response != nil {
		raw = response.Content
	}

	reply := Reply{}
	reply.Text, reply.Suggestions = SplitSuggestions(raw)

	if cfg.VoiceEnabled && reply.Text != "" && s.synth != nil {
		audio, synthErr := s.synth.Synthesize(ctx, reply.Text, cfg.VoiceName)
		if synthErr != nil {
			// Voice is best effort; the text reply stands on its own.
			log.Printf("[ai] synthesize voice: %v", synthErr)
		} else {
			reply.AudioData = audio
		}
	}

	log.Printf("[ai] generated reply persona=%s length=%d suggestions=%d", persona, len(reply.Text), len(reply.Suggestions))
	return reply, nil
}

// pickChain routes coding conversations to the pro model when one is
// configured.
func (s *Service) pickChain(cfg settings.AppSettings, persona chat.Persona) runnable {
	if s.proChain != nil && (persona == chat.PersonaCoding || cfg.AssistantMode == settings.ModeCoding) {
		return s.proChain
	}
	return s.chatChain
}

// buildHistoryMessages converts the prior transcript to model messages,
// bounded to the most recent turns.
func buildHistoryMessages(history []chat.Message) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	start := 0
	if len(history) > historyLimit {
		start = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-start)
	for _, msg := range history[start:] {
		switch msg.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return messages
}
