package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
)

// TaskPoolPlugin installs the ecs.TaskPool used by concurrent system sets.
type TaskPoolPlugin struct {
	// Workers caps the number of tasks running at once. Zero uses
	// domain.DefaultTaskPoolWorkers; a negative value removes the cap.
	Workers int
}

func (TaskPoolPlugin) Name() string { return "task_pool" }

func (p TaskPoolPlugin) Build(app *ecs.App) error {
	ecs.InsertResource[ecs.TaskPool](app.World(), NewTaskPool(p.Workers))
	return nil
}

type groupPool struct {
	limit int
}

// NewTaskPool returns a TaskPool backed by errgroup.
func NewTaskPool(workers int) ecs.TaskPool {
	if workers == 0 {
		workers = domain.DefaultTaskPoolWorkers
	}
	return &groupPool{limit: workers}
}

// Scope starts every task and waits for all of them. The first error
// cancels the context the others receive and is the one returned.
func (p *groupPool) Scope(ctx context.Context, tasks []func(ctx context.Context) error) error {
	if len(tasks) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}
	return g.Wait()
}
