package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"goal-planner/app/models"
	"goal-planner/app/services"
)

// PlanController handles HTTP requests for plans.
type PlanController struct {
	Service *services.PlanService
}

// NewPlanController creates a new PlanController.
func NewPlanController(service *services.PlanService) *PlanController {
	return &PlanController{Service: service}
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// CreatePlan handles POST /plans.
func (c *PlanController) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var goal models.GoalInput
	if err := decodeBody(w, r, &goal); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	rec, err := c.Service.Generate(r.Context(), userID(r), goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

// ListPlans handles GET /plans.
func (c *PlanController) ListPlans(w http.ResponseWriter, r *http.Request) {
	recs, err := c.Service.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*services.PlanRecord{}
	}
	writeJSON(w, r, http.StatusOK, recs)
}

// GetPlan handles GET /plans/{planID}.
func (c *PlanController) GetPlan(w http.ResponseWriter, r *http.Request) {
	rec, err := c.Service.Get(r.Context(), userID(r), mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// DeletePlan handles DELETE /plans/{planID}.
func (c *PlanController) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), userID(r), mux.Vars(r)["planID"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTasks handles GET /plans/{planID}/tasks.
func (c *PlanController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.Tasks(r.Context(), userID(r), mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tasks)
}

// GetNext handles GET /plans/{planID}/next. It answers 204 when no task is
// ready.
func (c *PlanController) GetNext(w http.ResponseWriter, r *http.Request) {
	task, err := c.Service.Next(r.Context(), userID(r), mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if task == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, task)
}

// GetProgress handles GET /plans/{planID}/progress.
func (c *PlanController) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := c.Service.Progress(r.Context(), userID(r), mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

// ToggleTask handles POST /plans/{planID}/tasks/{taskID}/toggle.
func (c *PlanController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rec, err := c.Service.Toggle(r.Context(), userID(r), vars["planID"], vars["taskID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// Replan handles POST /plans/{planID}/replan.
func (c *PlanController) Replan(w http.ResponseWriter, r *http.Request) {
	var req services.ReplanRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	result, err := c.Service.Replan(r.Context(), userID(r), mux.Vars(r)["planID"], req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
