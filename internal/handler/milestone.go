package handler

import (
	"net/http"

	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/service"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: milestoneService}
}

// Create handles POST /api/goals/{id}/milestones.
func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}

	var req model.MilestoneCreate
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	milestone, err := h.milestoneService.Create(r.Context(), goalID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, milestone)
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Milestone not found")
		return
	}

	var req model.MilestoneUpdate
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	milestone, err := h.milestoneService.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Milestone not found")
		return
	}

	err := h.milestoneService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
