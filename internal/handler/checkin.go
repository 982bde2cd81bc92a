package handler

import (
	"net/http"

	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/service"
)

type CheckInHandler struct {
	checkInService *service.CheckInService
}

func NewCheckInHandler(checkInService *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// Create handles POST /api/goals/{id}/checkins.
func (h *CheckInHandler) Create(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}

	var req model.CheckInCreate
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	checkIn, err := h.checkInService.Create(r.Context(), goalID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkIn)
}

func (h *CheckInHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Check-in not found")
		return
	}

	err := h.checkInService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
