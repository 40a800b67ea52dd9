package main

import (
	"context"
	"log/slog"
	"math"

	"github.com/aelexs/tickhost/internal/core"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/tick"
	"github.com/aelexs/tickhost/internal/timing"
)

// spinner turns at a fixed rate on visual frames and counts physics steps.
type spinner struct {
	Angle        float64 // radians, in [0, 2π)
	Turns        uint64
	PhysicsSteps uint64
}

const spinRate = math.Pi // radians per second

func buildDemo(app *ecs.App) {
	app.AddPlugins(ecs.NewPlugin("demo.spinner", func(app *ecs.App) error {
		ecs.InitResource[spinner](app.World())
		core.RegisterType[spinner](app.World())

		app.AddSystems(ecs.Update,
			tick.OnVisual(ecs.NewSystem("demo.spin", spin)),
			tick.OnPhysics(ecs.NewSystem("demo.count_steps", countSteps)),
		)
		return nil
	}))
}

func spin(_ context.Context, w *ecs.World) error {
	s := ecs.MustResource[spinner](w)
	clock := ecs.MustResource[timing.Clock[timing.Generic]](w)

	s.Angle += spinRate * clock.DeltaSeconds()
	for s.Angle >= 2*math.Pi {
		s.Angle -= 2 * math.Pi
		s.Turns++
		core.Logger(w).Info("spinner completed a turn",
			slog.Uint64("turns", s.Turns),
			slog.Float64("elapsed", clock.ElapsedSeconds()),
		)
	}
	return nil
}

func countSteps(_ context.Context, w *ecs.World) error {
	ecs.MustResource[spinner](w).PhysicsSteps++
	return nil
}
