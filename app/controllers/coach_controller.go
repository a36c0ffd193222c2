package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"goal-planner/app/services"
)

// CoachController serves spoken coaching clips.
type CoachController struct {
	Service *services.CoachService
}

// NewCoachController creates a new CoachController.
func NewCoachController(service *services.CoachService) *CoachController {
	return &CoachController{Service: service}
}

// ExplainTask handles POST /plans/{planID}/tasks/{taskID}/explain.
func (c *CoachController) ExplainTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clip, err := c.Service.Explain(r.Context(), userID(r), vars["planID"], vars["taskID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAudio(w, clip.Audio)
}

// Motivate handles POST /plans/{planID}/motivation.
func (c *CoachController) Motivate(w http.ResponseWriter, r *http.Request) {
	clip, err := c.Service.Motivate(r.Context(), userID(r), mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAudio(w, clip.Audio)
}
