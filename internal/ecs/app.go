package ecs

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

type pendingPlugin struct {
	phase  Phase
	seq    int
	plugin Plugin
}

// PluginInfo describes a built plugin.
type PluginInfo struct {
	Name  string `yaml:"name"`
	Phase string `yaml:"phase"`
}

// App is one instance of the embedded runtime.
type App struct {
	world    *World
	schedule *schedule

	pending  []pendingPlugin
	seq      int
	built    []PluginInfo
	names    map[string]bool
	current  Phase
	finished bool
	errs     []error

	started bool
	passes  uint64
}

// NewApp creates an empty App.
func NewApp() *App {
	return &App{
		world:    NewWorld(),
		schedule: newSchedule(),
		names:    make(map[string]bool),
	}
}

// World returns the App's resource store.
func (a *App) World() *World { return a.world }

// AddPlugins queues plugins in PhaseUser.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	return a.AddPluginsAt(PhaseUser, plugins...)
}

// AddPluginsAt queues plugins at the given phase. Plugins added from inside
// another plugin's Build are built in the same Finish call. Problems are
// reported by Finish.
func (a *App) AddPluginsAt(phase Phase, plugins ...Plugin) *App {
	for _, p := range plugins {
		if p == nil {
			continue
		}
		if a.finished {
			a.errs = append(a.errs, fmt.Errorf("add plugin %s: %w", p.Name(), ErrAlreadyFinished))
			continue
		}
		a.pending = append(a.pending, pendingPlugin{phase: phase, seq: a.seq, plugin: p})
		a.seq++
	}
	return a
}

// AddSystems schedules systems into a stage. It may be called at any time;
// the run order is re-resolved before the next pass.
func (a *App) AddSystems(stage Stage, systems ...*System) *App {
	a.schedule.add(stage, systems...)
	return a
}

// Finish builds every queued plugin in phase order and resolves the
// schedule. Update calls it on the first pass if nobody did before.
func (a *App) Finish() error {
	if a.finished {
		return errors.Join(a.errs...)
	}
	for len(a.pending) > 0 {
		sort.SliceStable(a.pending, func(i, j int) bool {
			if a.pending[i].phase != a.pending[j].phase {
				return a.pending[i].phase < a.pending[j].phase
			}
			return a.pending[i].seq < a.pending[j].seq
		})
		next := a.pending[0]
		a.pending = a.pending[1:]

		if err := a.buildPlugin(next); err != nil {
			a.finished = true
			a.errs = append(a.errs, err)
			return errors.Join(a.errs...)
		}
	}

	a.finished = true
	if err := a.schedule.build(); err != nil {
		a.errs = append(a.errs, err)
	}
	return errors.Join(a.errs...)
}

func (a *App) buildPlugin(p pendingPlugin) error {
	name := p.plugin.Name()
	if p.phase < a.current {
		return fmt.Errorf("%w: %s (phase %s) queued after phase %s was built",
			ErrPluginOrder, name, p.phase, a.current)
	}
	if a.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}
	if r, ok := p.plugin.(Requirer); ok {
		for _, dep := range r.Requires() {
			if !a.names[dep] {
				return fmt.Errorf("%w: %s requires %s", ErrPluginOrder, name, dep)
			}
		}
	}

	a.current = p.phase
	if err := p.plugin.Build(a); err != nil {
		return fmt.Errorf("build plugin %s: %w", name, err)
	}
	a.names[name] = true
	a.built = append(a.built, PluginInfo{Name: name, Phase: p.phase.String()})
	return nil
}

// Update runs one scheduler pass. The Startup stage runs once, at the start
// of the first pass. The first failing system aborts the pass; panics are
// not recovered here.
func (a *App) Update(ctx context.Context) error {
	if !a.finished {
		if err := a.Finish(); err != nil {
			return err
		}
	}
	if len(a.errs) > 0 {
		return errors.Join(a.errs...)
	}
	if err := a.schedule.build(); err != nil {
		return err
	}

	if !a.started {
		a.started = true
		if err := a.schedule.run(ctx, a.world, Startup); err != nil {
			return err
		}
	}
	for _, stage := range passStages {
		if err := a.schedule.run(ctx, a.world, stage); err != nil {
			return err
		}
	}
	a.passes++
	return nil
}

// Passes returns the number of completed passes.
func (a *App) Passes() uint64 { return a.passes }

// HasPlugin reports whether a plugin with that name has been built.
func (a *App) HasPlugin(name string) bool { return a.names[name] }

// Plugins lists built plugins in build order.
func (a *App) Plugins() []PluginInfo {
	return append([]PluginInfo(nil), a.built...)
}
