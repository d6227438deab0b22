// Command prompttester sends a single prompt through the configured
// gateway and prints the processed reply, for manual model checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomm-ai/tomm-assistant/backend/internal/analysis/reply"
	"github.com/tomm-ai/tomm-assistant/backend/internal/config"
	chatmodel "github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/ai"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.AI.Enabled() {
		log.Fatal("Ark credentials missing: set ARK_API_KEY and CHAT_MODEL first")
	}

	text := flag.String("text", "", "prompt text to send")
	persona := flag.String("persona", string(chatmodel.PersonaStandard), "persona to prompt as")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")
	flag.Parse()

	if *text == "" {
		flag.Usage()
		log.Fatal("provide a prompt with -text")
	}

	selected := chatmodel.Persona(*persona)
	if !selected.Valid() {
		log.Fatalf("unknown persona %q", *persona)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	gateway, err := ai.NewService(ctx, cfg.AI, nil)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}

	result, err := gateway.SendPrompt(ctx, nil, *text, settings.Defaults(), selected)
	if err != nil {
		log.Fatalf("gateway call failed: %v", err)
	}

	view := reply.Analyze(result.Text)
	fmt.Printf("text: %s\n", view.Text)
	if view.Emotion != "" {
		fmt.Printf("emotion: %s\n", view.Emotion)
	}
	if view.KnowledgeCard {
		fmt.Println("knowledge card: yes")
	}
	for i, suggestion := range result.Suggestions {
		fmt.Printf("suggestion %d: %s\n", i+1, suggestion)
	}
}
