package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/m-mizutani/gt"

	"goal-planner/app/controllers"
	"goal-planner/app/engine"
	"goal-planner/app/generator"
	"goal-planner/app/models"
	"goal-planner/app/routes"
	"goal-planner/app/services"
	"goal-planner/app/speech"
)

const planReply = `{
  "title": "Backend in 2 weeks",
  "summary": "basics then a project",
  "weeks": [
    {"week": 1, "theme": "Basics", "milestones": [
      {"name": "Setup", "why": "tools first", "tasks": [
        {"id": "t1", "text": "Install Go", "minutes": 20, "category": "research", "successCriteria": "go version works"},
        {"id": "t2", "text": "Tour of Go", "minutes": 60, "category": "practice", "successCriteria": "finished", "prereqs": ["t1"]}
      ]}
    ]},
    {"week": 2, "theme": "Build", "milestones": [
      {"name": "API", "why": "portfolio", "tasks": [
        {"id": "t3", "text": "Write a REST API", "minutes": 90, "category": "build", "successCriteria": "tests pass", "prereqs": ["t2"]}
      ]}
    ]}
  ]
}`

func replanReply(n int) string {
	tasks := make([]string, n)
	for i := range tasks {
		tasks[i] = fmt.Sprintf(`{"text": "step %d", "minutes": 30, "category": "build", "successCriteria": "done", "prereqs": ["t1"], "week": %d, "milestoneName": "Rerouted"}`, i, 1+i%2)
	}
	return `{"tasks": [` + strings.Join(tasks, ",") + `]}`
}

// scriptedModel answers plan, replan and coaching prompts with canned replies.
type scriptedModel struct{}

func (scriptedModel) Generate(ctx context.Context, p generator.Prompt) (string, error) {
	switch {
	case !p.JSON:
		return "You are doing great.", nil
	case strings.Contains(p.User, "Propose exactly 7 tasks"):
		return "```json\n" + replanReply(7) + "\n```", nil
	}
	return planReply, nil
}

type fakeSynth struct{}

func (fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("mp3:" + text), nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gen, err := generator.NewPlanGenerator(scriptedModel{})
	gt.NoError(t, err).Required()

	plans := services.NewPlanService(services.NewMemoryStore(), gen)
	coach := services.NewCoachService(plans, gen, speech.NewSpeaker(fakeSynth{}, nil))

	router := mux.NewRouter()
	routes.RegisterRoutes(router, slog.New(slog.DiscardHandler), controllers.NewPlanController(plans), controllers.NewCoachController(coach))
	return router
}

func call(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			gt.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(controllers.UserHeader, user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func goal() models.GoalInput {
	return models.GoalInput{
		GoalText:      "Become a backend developer",
		HoursPerWeek:  5,
		TimelineWeeks: 2,
		SkillLevel:    models.SkillBeginner,
	}
}

func createPlan(t *testing.T, h http.Handler, user string) string {
	t.Helper()
	w := call(t, h, http.MethodPost, "/plans", user, goal())
	gt.Equal(t, w.Code, http.StatusCreated)
	return decode[services.PlanRecord](t, w).ID
}

func TestHealth(t *testing.T) {
	w := call(t, newRouter(t), http.MethodGet, "/healthz", "", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.NotEqual(t, w.Header().Get(routes.RequestIDHeader), "")
}

func TestCreatePlan(t *testing.T) {
	h := newRouter(t)

	t.Run("created", func(t *testing.T) {
		w := call(t, h, http.MethodPost, "/plans", "alice", goal())
		gt.Equal(t, w.Code, http.StatusCreated)
		rec := decode[services.PlanRecord](t, w)
		gt.Equal(t, rec.UserID, "alice")
		gt.Equal(t, rec.Plan.Title, "Backend in 2 weeks")
		gt.Equal(t, rec.Completed.Len(), 0)
	})

	t.Run("missing user", func(t *testing.T) {
		w := call(t, h, http.MethodPost, "/plans", "", goal())
		gt.Equal(t, w.Code, http.StatusUnauthorized)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := call(t, h, http.MethodPost, "/plans", "alice", `{"goalText": `)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("invalid goal", func(t *testing.T) {
		g := goal()
		g.HoursPerWeek = 0
		w := call(t, h, http.MethodPost, "/plans", "alice", g)
		gt.Equal(t, w.Code, http.StatusUnprocessableEntity)
		body := decode[map[string]string](t, w)
		gt.Equal(t, body["field"], "hoursPerWeek")
	})
}

func TestPlanLifecycle(t *testing.T) {
	h := newRouter(t)
	id := createPlan(t, h, "alice")
	base := "/plans/" + id

	t.Run("list", func(t *testing.T) {
		w := call(t, h, http.MethodGet, "/plans", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.A(t, decode[[]services.PlanRecord](t, w)).Length(1)

		w = call(t, h, http.MethodGet, "/plans", "bob", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, strings.TrimSpace(w.Body.String()), "[]")
	})

	t.Run("ownership", func(t *testing.T) {
		gt.Equal(t, call(t, h, http.MethodGet, base, "bob", nil).Code, http.StatusForbidden)
		gt.Equal(t, call(t, h, http.MethodGet, "/plans/nope", "alice", nil).Code, http.StatusNotFound)
	})

	t.Run("tasks and next", func(t *testing.T) {
		w := call(t, h, http.MethodGet, base+"/tasks", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		tasks := decode[[]services.TaskView](t, w)
		gt.A(t, tasks).Length(3)
		gt.True(t, tasks[0].Ready)
		gt.False(t, tasks[1].Ready)

		w = call(t, h, http.MethodGet, base+"/next", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, decode[models.FlatTask](t, w).ID, "t1")
	})

	t.Run("toggle updates progress", func(t *testing.T) {
		w := call(t, h, http.MethodPost, base+"/tasks/t1/toggle", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, decode[services.PlanRecord](t, w).Completed.IDs(), []string{"t1"})

		w = call(t, h, http.MethodGet, base+"/progress", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		progress := decode[engine.Progress](t, w)
		gt.Equal(t, progress.Percent, 33)
		gt.Equal(t, progress.Band, engine.BandClimbing)

		w = call(t, h, http.MethodGet, base+"/next", "alice", nil)
		gt.Equal(t, decode[models.FlatTask](t, w).ID, "t2")

		gt.Equal(t, call(t, h, http.MethodPost, base+"/tasks/ghost/toggle", "alice", nil).Code, http.StatusNotFound)
	})

	t.Run("coaching audio", func(t *testing.T) {
		w := call(t, h, http.MethodPost, base+"/tasks/t2/explain", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "audio/mpeg")
		gt.Equal(t, w.Body.String(), "mp3:You are doing great.")

		w = call(t, h, http.MethodPost, base+"/motivation", "alice", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "audio/mpeg")
	})

	t.Run("replan", func(t *testing.T) {
		w := call(t, h, http.MethodPost, base+"/replan", "alice", services.ReplanRequest{Feedback: "more building"})
		gt.Equal(t, w.Code, http.StatusOK)
		result := decode[services.ReplanResult](t, w)
		gt.Equal(t, result.Replaced, 2)
		gt.Equal(t, result.Added, 7)
		gt.Equal(t, result.DroppedPrereqs, 0)
		gt.Equal(t, engine.TotalCount(engine.Flatten(result.Record.Plan)), 8)
		gt.True(t, result.Record.Completed.Has("t1"))
	})

	t.Run("delete", func(t *testing.T) {
		gt.Equal(t, call(t, h, http.MethodDelete, base, "alice", nil).Code, http.StatusNoContent)
		gt.Equal(t, call(t, h, http.MethodGet, base, "alice", nil).Code, http.StatusNotFound)
	})
}

func TestNextWhenDone(t *testing.T) {
	h := newRouter(t)
	base := "/plans/" + createPlan(t, h, "alice")

	for _, id := range []string{"t1", "t2", "t3"} {
		gt.Equal(t, call(t, h, http.MethodPost, base+"/tasks/"+id+"/toggle", "alice", nil).Code, http.StatusOK)
	}
	w := call(t, h, http.MethodGet, base+"/next", "alice", nil)
	gt.Equal(t, w.Code, http.StatusNoContent)
	gt.Equal(t, w.Body.Len(), 0)
}
