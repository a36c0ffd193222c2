package routes

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"goal-planner/app/controllers"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, logger *slog.Logger, planController *controllers.PlanController, coachController *controllers.CoachController) {
	router.Use(RequestLogger(logger))

	router.HandleFunc("/healthz", controllers.Health).Methods(http.MethodGet)

	router.HandleFunc("/plans", planController.CreatePlan).Methods(http.MethodPost)
	router.HandleFunc("/plans", planController.ListPlans).Methods(http.MethodGet)

	plan := router.PathPrefix("/plans/{planID}").Subrouter()
	plan.HandleFunc("", planController.GetPlan).Methods(http.MethodGet)
	plan.HandleFunc("", planController.DeletePlan).Methods(http.MethodDelete)
	plan.HandleFunc("/tasks", planController.GetTasks).Methods(http.MethodGet)
	plan.HandleFunc("/next", planController.GetNext).Methods(http.MethodGet)
	plan.HandleFunc("/progress", planController.GetProgress).Methods(http.MethodGet)
	plan.HandleFunc("/tasks/{taskID}/toggle", planController.ToggleTask).Methods(http.MethodPost)
	plan.HandleFunc("/replan", planController.Replan).Methods(http.MethodPost)
	plan.HandleFunc("/tasks/{taskID}/explain", coachController.ExplainTask).Methods(http.MethodPost)
	plan.HandleFunc("/motivation", coachController.Motivate).Methods(http.MethodPost)
}
