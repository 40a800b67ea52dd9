package core

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/observability"
	"github.com/aelexs/tickhost/internal/tick"
)

// Diagnostics holds per-app pass statistics.
type Diagnostics struct {
	VisualPasses  uint64
	PhysicsPasses uint64
	LastPass      time.Duration

	passStart time.Time
}

// DiagnosticsPlugin measures every pass and exports the results as OTel
// metrics tagged with the tick kind.
type DiagnosticsPlugin struct {
	Meter metric.Meter // Defaults to observability.Meter("tickhost/core")
	Clock domain.Clock // Defaults to domain.RealClock
}

func (DiagnosticsPlugin) Name() string { return "diagnostics" }

func (p DiagnosticsPlugin) Build(app *ecs.App) error {
	meter := p.Meter
	if meter == nil {
		meter = observability.Meter("tickhost/core")
	}
	clock := p.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}

	passes, err := meter.Int64Counter("tickhost_passes_total",
		metric.WithDescription("Total completed scheduler passes"))
	if err != nil {
		return err
	}
	duration, err := meter.Float64Histogram("tickhost_pass_duration_seconds",
		metric.WithDescription("Duration of completed scheduler passes"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}

	ecs.InitResource[Diagnostics](app.World())

	app.AddSystems(ecs.First, ecs.NewSystem("core.diagnostics.pass_begin", func(_ context.Context, w *ecs.World) error {
		ecs.MustResource[Diagnostics](w).passStart = clock.Now()
		return nil
	}))
	app.AddSystems(ecs.Last, ecs.NewSystem("core.diagnostics.pass_end", func(ctx context.Context, w *ecs.World) error {
		d := ecs.MustResource[Diagnostics](w)
		d.LastPass = clock.Now().Sub(d.passStart)

		kind := "none"
		if k, ok := tick.Current(w); ok {
			kind = k.String()
			switch k {
			case tick.Visual:
				d.VisualPasses++
			case tick.Physics:
				d.PhysicsPasses++
			}
		}

		attrs := metric.WithAttributes(attribute.String("tick_kind", kind))
		passes.Add(ctx, 1, attrs)
		duration.Record(ctx, d.LastPass.Seconds(), attrs)
		return nil
	}))
	return nil
}
