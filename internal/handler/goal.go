package handler

import (
	"net/http"
	"strconv"

	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/service"
	"github.com/gmgoals/goals/internal/validation"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter model.GoalFilter

	year := r.URL.Query().Get("year")
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			writeServiceError(w, r, validation.Invalid("year", "year must be an integer"))
			return
		}
		filter.Year = y
	}
	filter.Person = r.URL.Query().Get("person")

	goals, err := h.goalService.Goals(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.GoalCreate
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}

	goal, err := h.goalService.Goal(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}

	var req model.GoalUpdate
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Goal not found")
		return
	}

	err := h.goalService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
