package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomm-ai/tomm-assistant/backend/internal/audio"
	"github.com/tomm-ai/tomm-assistant/backend/internal/config"
	"github.com/tomm-ai/tomm-assistant/backend/internal/handler"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/ai"
	chatservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/conversation"
	settingsservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/speech"
	taskservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/task"
	"github.com/tomm-ai/tomm-assistant/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	sessionService := chatservice.NewService(store)
	settingsService := settingsservice.NewService(store)
	taskService := taskservice.NewService(store)

	var synthesizer ai.Synthesizer
	if cfg.Speech.Enabled {
		synthesizer = speech.NewService(cfg.Speech)
		log.Println("Speech synthesis enabled")
	} else {
		log.Println("Speech endpoint not configured, voice replies disabled")
	}

	var gateway ai.Gateway
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI, synthesizer)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - check the Ark environment variables")
		} else {
			gateway = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, every turn will use the fallback reply")
	}

	orchestrator := conversation.New(sessionService, settingsService, gateway, audio.LogPlayer{})

	router := handler.NewRouter(sessionService, settingsService, taskService, orchestrator)

	startServer(ctx, cfg.Server, router)
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	if cfg.DataDir == "" {
		log.Println("DATA_DIR empty, state will not survive restarts")
		return storage.NewMemoryStore(), nil
	}
	return storage.NewFileStore(cfg.DataDir)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Tomm assistant backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
