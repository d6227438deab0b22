package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tomm-ai/tomm-assistant/backend/internal/handler/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/handler/settings"
	"github.com/tomm-ai/tomm-assistant/backend/internal/handler/stream"
	"github.com/tomm-ai/tomm-assistant/backend/internal/handler/task"
	"github.com/tomm-ai/tomm-assistant/backend/internal/handler/voice"
	middlewarePkg "github.com/tomm-ai/tomm-assistant/backend/internal/middleware"
	chatservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/conversation"
	settingsservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/settings"
	taskservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/task"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(sessions *chatservice.Service, prefs *settingsservice.Service, tasks *taskservice.Service, orchestrator *conversation.Orchestrator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(sessions, orchestrator)
	settingsHandler := settings.New(prefs)
	taskHandler := task.New(tasks)
	voiceHandler := voice.New(sessions)
	streamHandler := stream.New(orchestrator)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		settingsHandler.RegisterRoutes(api)
		taskHandler.RegisterRoutes(api)
		voiceHandler.RegisterRoutes(api)

		api.Get("/stream", streamHandler.HandleTurn)
	})

	return r
}
