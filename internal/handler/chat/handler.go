// Package chat exposes the session collection and message submission
// over HTTP. Handlers are the presentation boundary; marker parsing for
// display happens here, never in the stores.
package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomm-ai/tomm-assistant/backend/internal/analysis/reply"
	chatmodel "github.com/tomm-ai/tomm-assistant/backend/internal/model/chat"
	chatservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/chat"
	"github.com/tomm-ai/tomm-assistant/backend/internal/service/conversation"
	"github.com/tomm-ai/tomm-assistant/backend/pkg/utils"
)

// Handler serves session and message routes.
type Handler struct {
	sessions     *chatservice.Service
	orchestrator *conversation.Orchestrator
}

// New creates the chat handler.
func New(sessions *chatservice.Service, orchestrator *conversation.Orchestrator) *Handler {
	return &Handler{
		sessions:     sessions,
		orchestrator: orchestrator,
	}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleListSessions)
	r.Post("/sessions/active", h.handleSetActive)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSession)
	r.Patch("/sessions/{sessionID}/title", h.handleRenameSession)
	r.Put("/sessions/{sessionID}/persona", h.handleSetPersona)
	r.Get("/personas", h.handleListPersonas)
	r.Post("/messages", h.handleSendMessage)
	r.Get("/status", h.handleStatus)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions": h.sessions.Sessions(ctx),
		"activeId": h.sessions.ActiveID(ctx),
	})
}

// handleSetActive selects a session; an empty id clears the pointer,
// which is how the client starts a new chat.
func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessions.SetActive(r.Context(), payload.SessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"activeId": payload.SessionID})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.DeleteSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.sessions.RenameSession(r.Context(), sessionID, payload.Title)
	switch {
	case errors.Is(err, chatservice.ErrEmptyTitle):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
	}
}

func (h *Handler) handleSetPersona(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Persona chatmodel.Persona `json:"persona"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.sessions.SetPersona(r.Context(), sessionID, payload.Persona)
	switch {
	case errors.Is(err, chatservice.ErrInvalidPersona):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, chatmodel.Personas())
}

// handleSendMessage runs one full conversational turn and returns both
// messages plus the display view of the assistant reply.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.orchestrator.SendMessage(r.Context(), payload.Text)
	if errors.Is(err, conversation.ErrEmptyMessage) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"turn": turn,
		"view": reply.Analyze(turn.Assistant.Content),
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"busy": h.orchestrator.Busy()})
}
