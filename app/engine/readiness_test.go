package engine_test

import (
	"testing"

	"goal-planner/app/engine"
	"goal-planner/app/models"

	"github.com/m-mizutani/gt"
)

func TestNextReady(t *testing.T) {
	t.Run("walks a simple chain", func(t *testing.T) {
		flat := engine.Flatten(plan(week(1, milestone("Setup", task("A"), task("B", "A")))))

		next, ok := engine.NextReady(flat, models.NewCompletedSet())
		gt.True(t, ok)
		gt.Equal(t, next.ID, "A")

		next, ok = engine.NextReady(flat, models.NewCompletedSet("A"))
		gt.True(t, ok)
		gt.Equal(t, next.ID, "B")

		all := models.NewCompletedSet("A", "B")
		_, ok = engine.NextReady(flat, all)
		gt.False(t, ok)
		gt.Equal(t, engine.CompletedCount(flat, all), 2)
		pct, err := engine.Percentage(engine.CompletedCount(flat, all), engine.TotalCount(flat))
		gt.NoError(t, err)
		gt.Equal(t, pct, 100)
	})

	t.Run("scans past blocked tasks", func(t *testing.T) {
		flat := engine.Flatten(plan(
			week(1, milestone("m", task("A", "C"), task("B", "A"))),
			week(2, milestone("n", task("C"))),
		))
		next, ok := engine.NextReady(flat, models.NewCompletedSet())
		gt.True(t, ok)
		gt.Equal(t, next.ID, "C")
		gt.Equal(t, next.Week, 2)
	})

	t.Run("no prereqs is eligible as soon as it is first incomplete", func(t *testing.T) {
		flat := engine.Flatten(plan(week(1, milestone("m", task("A"), task("B"), task("C")))))
		next, ok := engine.NextReady(flat, models.NewCompletedSet("A"))
		gt.True(t, ok)
		gt.Equal(t, next.ID, "B")
	})

	t.Run("cycle yields none", func(t *testing.T) {
		flat := engine.Flatten(plan(week(1, milestone("m", task("A", "B"), task("B", "A")))))
		_, ok := engine.NextReady(flat, models.NewCompletedSet())
		gt.False(t, ok)
		gt.Equal(t, len(engine.Blocked(flat, models.NewCompletedSet())), 2)
	})

	t.Run("missing prereq is never ready", func(t *testing.T) {
		flat := engine.Flatten(plan(week(1, milestone("m", task("A"), task("C", "X")))))
		for _, set := range []models.CompletedSet{
			models.NewCompletedSet(),
			models.NewCompletedSet("A"),
			models.NewCompletedSet("A", "unrelated"),
		} {
			next, ok := engine.NextReady(flat, set)
			if ok {
				gt.NotEqual(t, next.ID, "C")
			}
		}
		gt.Equal(t, engine.MissingPrereqs(flat), map[string][]string{"C": {"X"}})
	})

	t.Run("a task whose prereq is complete stays ready as completions grow", func(t *testing.T) {
		flat := engine.Flatten(plan(week(1, milestone("m",
			task("A"), task("B", "A"), task("C", "A"), task("D", "B", "C"),
		))))
		sets := []models.CompletedSet{
			models.NewCompletedSet("A"),
			models.NewCompletedSet("A", "B"),
			models.NewCompletedSet("A", "B", "C"),
		}
		for i := 0; i < len(sets)-1; i++ {
			for _, ft := range flat {
				if engine.IsReady(ft.Task, sets[i]) {
					gt.True(t, engine.IsReady(ft.Task, sets[i+1]))
				}
			}
			next, ok := engine.NextReady(flat, sets[i])
			gt.True(t, ok)
			gt.False(t, sets[i].Has(next.ID))
		}
	})

	t.Run("empty plan has nothing ready", func(t *testing.T) {
		_, ok := engine.NextReady(engine.Flatten(plan()), models.NewCompletedSet("A"))
		gt.False(t, ok)
	})
}
