package ecs

import (
	"context"
)

// SystemFunc is the body of a system. A returned error aborts the pass.
type SystemFunc func(ctx context.Context, w *World) error

// Condition decides before each pass whether a system runs.
type Condition func(w *World) bool

// System is a named unit of work scheduled into a stage.
type System struct {
	name       string
	run        SystemFunc
	conditions []Condition
	after      []string
}

// NewSystem creates a system. Names must be unique within a stage; they are
// the targets of After constraints and appear in fault messages.
func NewSystem(name string, run SystemFunc) *System {
	return &System{name: name, run: run}
}

// Name returns the system's name.
func (s *System) Name() string { return s.name }

// RunIf adds a run condition. All conditions must hold for the system to run.
func (s *System) RunIf(c Condition) *System {
	s.conditions = append(s.conditions, c)
	return s
}

// After orders s after the named systems of the same stage. Names that are
// not scheduled in that stage are ignored.
func (s *System) After(names ...string) *System {
	s.after = append(s.after, names...)
	return s
}

// ShouldRun evaluates the run conditions against w.
func (s *System) ShouldRun(w *World) bool {
	for _, c := range s.conditions {
		if !c(w) {
			return false
		}
	}
	return true
}

// Run executes the system if its conditions hold.
func (s *System) Run(ctx context.Context, w *World) error {
	if !s.ShouldRun(w) {
		return nil
	}
	return s.run(ctx, w)
}

// ResourceExists is a condition that holds while a T is stored.
func ResourceExists[T any]() Condition {
	return func(w *World) bool {
		return HasResource[T](w)
	}
}

// Not negates a condition.
func Not(c Condition) Condition {
	return func(w *World) bool {
		return !c(w)
	}
}
