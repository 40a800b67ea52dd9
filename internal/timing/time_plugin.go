package timing

import (
	"context"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
)

// TimePlugin installs the real, virtual, fixed and generic clocks and the
// system that advances them from the wall clock at the start of every pass.
type TimePlugin struct {
	Clock domain.Clock // Defaults to domain.RealClock
}

func (TimePlugin) Name() string { return "time" }

func (p TimePlugin) Build(app *ecs.App) error {
	clock := p.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	w := app.World()

	ecs.InsertResource(w, NewClock(NewReal(clock.Now())))
	ecs.InsertResource(w, NewClock(NewVirtual()))
	ecs.InsertResource(w, NewClock(Fixed{}))
	ecs.InsertResource(w, NewClock(Generic{}))

	app.AddSystems(ecs.First, ecs.NewSystem("timing.time_system", func(_ context.Context, w *ecs.World) error {
		wall := ecs.MustResource[Clock[Real]](w)
		virt := ecs.MustResource[Clock[Virtual]](w)

		AdvanceReal(wall, clock.Now())
		AdvanceVirtual(virt, wall.Delta())
		*ecs.MustResource[Clock[Generic]](w) = virt.AsGeneric()
		return nil
	}))
	return nil
}
