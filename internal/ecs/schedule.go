package ecs

import (
	"context"
	"fmt"
	"strings"
)

// schedule holds the systems of every stage and their resolved run order.
type schedule struct {
	systems map[Stage][]*System
	order   map[Stage][]*System
	dirty   bool
}

func newSchedule() *schedule {
	return &schedule{
		systems: make(map[Stage][]*System),
		order:   make(map[Stage][]*System),
	}
}

func (s *schedule) add(stage Stage, systems ...*System) {
	for _, sys := range systems {
		if sys == nil {
			continue
		}
		s.systems[stage] = append(s.systems[stage], sys)
	}
	s.dirty = true
}

// build resolves After constraints per stage. Ties keep registration order.
func (s *schedule) build() error {
	if !s.dirty {
		return nil
	}
	for _, stage := range allStages {
		ordered, err := sortStage(s.systems[stage])
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage, err)
		}
		s.order[stage] = ordered
	}
	s.dirty = false
	return nil
}

func (s *schedule) run(ctx context.Context, w *World, stage Stage) error {
	for _, sys := range s.order[stage] {
		if err := sys.Run(ctx, w); err != nil {
			return fmt.Errorf("%s/%s: %w", stage, sys.name, err)
		}
	}
	return nil
}

// sortStage is Kahn's algorithm, always picking the lowest registration
// index among ready systems so unconstrained systems keep their order.
func sortStage(systems []*System) ([]*System, error) {
	index := make(map[string]int, len(systems))
	for i, sys := range systems {
		if _, dup := index[sys.name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSystem, sys.name)
		}
		index[sys.name] = i
	}

	indegree := make([]int, len(systems))
	successors := make([][]int, len(systems))
	for i, sys := range systems {
		for _, dep := range sys.after {
			j, ok := index[dep]
			if !ok {
				continue
			}
			successors[j] = append(successors[j], i)
			indegree[i]++
		}
	}

	ordered := make([]*System, 0, len(systems))
	placed := make([]bool, len(systems))
	for len(ordered) < len(systems) {
		next := -1
		for i := range systems {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, sys := range systems {
				if !placed[i] {
					stuck = append(stuck, sys.name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrScheduleCycle, strings.Join(stuck, ", "))
		}
		placed[next] = true
		ordered = append(ordered, systems[next])
		for _, succ := range successors[next] {
			indegree[succ]--
		}
	}
	return ordered, nil
}
