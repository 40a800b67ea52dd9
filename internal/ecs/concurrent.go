package ecs

import (
	"context"
	"fmt"
	"runtime/debug"
)

// TaskPool runs a batch of tasks and returns once all have finished.
// The first error cancels the context handed to the remaining tasks.
type TaskPool interface {
	Scope(ctx context.Context, tasks []func(ctx context.Context) error) error
}

// Concurrent groups independent systems into one system. When a TaskPool
// resource exists the members run on it; otherwise they run in order on the
// calling goroutine. Members must not write resources another member reads.
//
// A panic in a member running on the pool is recovered on its goroutine and
// returned as a *PanicError, so it reaches the same fault boundary as a
// panic on the driving goroutine.
func Concurrent(name string, systems ...*System) *System {
	members := append([]*System(nil), systems...)
	return NewSystem(name, func(ctx context.Context, w *World) error {
		pool, ok := Resource[TaskPool](w)
		if !ok || *pool == nil {
			for _, s := range members {
				if err := s.Run(ctx, w); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
			}
			return nil
		}

		tasks := make([]func(context.Context) error, 0, len(members))
		for _, s := range members {
			if !s.ShouldRun(w) {
				continue
			}
			tasks = append(tasks, func(ctx context.Context) (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = &PanicError{System: s.name, Value: r, Stack: debug.Stack()}
					}
				}()
				if err := s.run(ctx, w); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
				return nil
			})
		}
		return (*pool).Scope(ctx, tasks)
	})
}
