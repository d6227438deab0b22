package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	taskservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/task"
	"github.com/tomm-ai/tomm-assistant/backend/pkg/utils"
)

// Handler serves the to-do companion routes.
type Handler struct {
	tasks *taskservice.Service
}

// New creates the task handler.
func New(tasks *taskservice.Service) *Handler {
	return &Handler{tasks: tasks}
}

// RegisterRoutes mounts the task routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tasks", h.handleListTasks)
	r.Post("/tasks", h.handleAddTask)
	r.Post("/tasks/{taskID}/subtasks", h.handleAddSubTask)
	r.Post("/tasks/{taskID}/toggle", h.handleToggle)
	r.Delete("/tasks/{taskID}", h.handleDeleteTask)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.tasks.Tasks(r.Context()))
}

func (h *Handler) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.tasks.Add(r.Context(), payload.Text)
	if errors.Is(err, taskservice.ErrEmptyText) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleAddSubTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.tasks.AddSubTask(r.Context(), taskID, payload.Text)
	switch {
	case errors.Is(err, taskservice.ErrEmptyText):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, taskservice.ErrTaskNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	default:
		utils.RespondJSON(w, http.StatusCreated, sub)
	}
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var payload struct {
		SubTaskID string `json:"subTaskId"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.tasks.Toggle(r.Context(), taskID, payload.SubTaskID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if err := h.tasks.Delete(r.Context(), taskID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
