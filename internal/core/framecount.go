package core

import (
	"context"

	"github.com/aelexs/tickhost/internal/ecs"
)

// FrameCount counts completed passes of any kind. It is incremented in the
// Last stage, so systems see the number of passes before the current one.
type FrameCount struct {
	Count uint64
}

// FrameCountPlugin installs FrameCount and the system that increments it.
type FrameCountPlugin struct{}

func (FrameCountPlugin) Name() string { return "frame_count" }

func (FrameCountPlugin) Build(app *ecs.App) error {
	ecs.InitResource[FrameCount](app.World())
	app.AddSystems(ecs.Last, ecs.NewSystem("core.frame_count", func(_ context.Context, w *ecs.World) error {
		ecs.MustResource[FrameCount](w).Count++
		return nil
	}))
	return nil
}
