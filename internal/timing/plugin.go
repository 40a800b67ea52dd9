package timing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/observability"
	"github.com/aelexs/tickhost/internal/tick"
)

var (
	clampedTotal  metric.Int64Counter
	capturesTotal metric.Int64Counter
)

func init() {
	m := observability.Meter("tickhost/timing")

	clampedTotal, _ = m.Int64Counter("timing_delta_clamped_total",
		metric.WithDescription("Total captured deltas cut to the max delta"))
	capturesTotal, _ = m.Int64Counter("timing_captures_total",
		metric.WithDescription("Total clock captures"))
}

// Source selects what the custom clock advances by on each capture.
type Source string

const (
	// SourceHost advances by the delta the host reported, scaled and capped.
	SourceHost Source = "host"
	// SourceVirtual advances by the virtual clock's own delta.
	SourceVirtual Source = "virtual"
)

// ParseSource maps a config value to a Source. Empty means SourceHost.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceHost:
		return SourceHost, nil
	case SourceVirtual:
		return SourceVirtual, nil
	default:
		return "", fmt.Errorf("%w: timing source %q", domain.ErrInvalidConfig, s)
	}
}

// Plugin is the reconciliation pipeline. It installs the custom clock and
// keeps the generic clock equal to it for the whole pass.
type Plugin struct {
	MaxDelta      time.Duration // Non-positive uses domain.MaxDeltaTime
	RelativeSpeed *float64      // Nil keeps the virtual clock's speed; 0 freezes time
	Source        Source        // Empty means SourceHost
}

func (Plugin) Name() string { return "timing" }

func (Plugin) Requires() []string { return []string{"time"} }

func (p Plugin) Build(app *ecs.App) error {
	if _, err := ParseSource(string(p.Source)); err != nil {
		return err
	}
	maxDelta := p.MaxDelta
	if maxDelta <= 0 {
		maxDelta = domain.MaxDeltaTime
	}

	ecs.InitResource[Clock[CTime]](app.World())

	app.AddSystems(ecs.Startup, ecs.NewSystem("timing.set_max_delta", func(_ context.Context, w *ecs.World) error {
		virt := ecs.MustResource[Clock[Virtual]](w).ContextMut()
		virt.SetMaxDelta(maxDelta)
		if p.RelativeSpeed != nil {
			virt.SetRelativeSpeed(*p.RelativeSpeed)
		}
		return nil
	}))

	app.AddSystems(ecs.First, ecs.NewSystem("timing.capture", func(ctx context.Context, w *ecs.World) error {
		capture(ctx, w, p.Source)
		return nil
	}).After("timing.time_system"))

	for _, stage := range []ecs.Stage{ecs.PreUpdate, ecs.Update, ecs.PostUpdate} {
		app.AddSystems(stage, ecs.NewSystem("timing.override_time", func(_ context.Context, w *ecs.World) error {
			OverrideTime(w)
			return nil
		}))
	}
	return nil
}

// capture folds the latest host delta into the custom clock and republishes
// it. Physics passes leave the custom clock's elapsed time alone and advance
// the fixed clock instead, so each second of host time is counted once.
func capture(ctx context.Context, w *ecs.World, source Source) {
	custom := ecs.MustResource[Clock[CTime]](w)
	virt := ecs.MustResource[Clock[Virtual]](w)
	cctx := custom.ContextMut()
	vctx := virt.ContextMut()

	cctx.IsPaused = vctx.IsPaused()
	cctx.FrameCount++

	kind := "none"
	if k, ok := tick.Current(w); ok {
		kind = k.String()
	}
	attrs := metric.WithAttributes(attribute.String("tick_kind", kind))
	capturesTotal.Add(ctx, 1, attrs)

	switch {
	case source == SourceVirtual:
		custom.AdvanceBy(virt.Delta())
	case tick.IsPhysics(w):
		custom.AdvanceBy(0)
		d, clamped := scaleAndClamp(cctx.PhysicsDelta, vctx.RelativeSpeed(), vctx.MaxDelta())
		if clamped {
			clampedTotal.Add(ctx, 1, attrs)
		}
		if fixed, ok := ecs.Resource[Clock[Fixed]](w); ok {
			fixed.AdvanceBy(d)
			fixed.ContextMut().Steps++
		}
	default:
		d, clamped := scaleAndClamp(cctx.VisualDelta, vctx.RelativeSpeed(), vctx.MaxDelta())
		if clamped {
			clampedTotal.Add(ctx, 1, attrs)
		}
		custom.AdvanceBy(d)
	}

	OverrideTime(w)
}

// OverrideTime copies the custom clock into the generic clock. It is a no-op
// unless both exist.
func OverrideTime(w *ecs.World) {
	custom, ok := ecs.Resource[Clock[CTime]](w)
	if !ok {
		return
	}
	generic, ok := ecs.Resource[Clock[Generic]](w)
	if !ok {
		return
	}
	*generic = custom.AsGeneric()
}

// scaleAndClamp converts seconds*speed to a duration in [0, max].
func scaleAndClamp(seconds, speed float64, max time.Duration) (time.Duration, bool) {
	d, ok := domain.SecondsToDuration(seconds * speed)
	if !ok {
		return 0, false
	}
	if d > max {
		return max, true
	}
	return d, false
}
