package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	settingsmodel "github.com/tomm-ai/tomm-assistant/backend/internal/model/settings"
	settingsservice "github.com/tomm-ai/tomm-assistant/backend/internal/service/settings"
	"github.com/tomm-ai/tomm-assistant/backend/pkg/utils"
)

// Handler serves the preferences record.
type Handler struct {
	settings *settingsservice.Service
}

// New creates the settings handler.
func New(settings *settingsservice.Service) *Handler {
	return &Handler{settings: settings}
}

// RegisterRoutes mounts the settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGetSettings)
	r.Patch("/settings", h.handleUpdateSettings)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.settings.Current(r.Context()))
}

// handleUpdateSettings merges a partial update; unknown domain values
// are coerced back to defaults by the model layer.
func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch settingsmodel.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.settings.Update(r.Context(), patch))
}
