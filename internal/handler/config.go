package handler

import (
	"net/http"

	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/service"
)

type ConfigHandler struct {
	cfg         *config.Config
	goalService *service.GoalService
}

func NewConfigHandler(cfg *config.Config, goalService *service.GoalService) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, goalService: goalService}
}

type configResponse struct {
	Persons     []string `json:"persons"`
	Categories  []string `json:"categories"`
	CurrentYear int      `json:"currentYear"`
}

func (h *ConfigHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Persons:     h.cfg.Persons(),
		Categories:  config.Categories,
		CurrentYear: h.cfg.CurrentYear,
	})
}

func (h *ConfigHandler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.goalService.Years(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]int{"years": years})
}
