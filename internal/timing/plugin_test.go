package timing_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/domain/domaintest"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/tick"
	"github.com/aelexs/tickhost/internal/timing"
)

// observed collects what systems saw on the generic clock.
type observed struct {
	deltas []float64
}

func newTimingApp(t *testing.T, p timing.Plugin) *ecs.App {
	t.Helper()
	clock := domaintest.NewFakeClock(time.Unix(0, 0))
	clock.SetAutoStep(time.Second)

	app := ecs.NewApp()
	app.AddPluginsAt(ecs.PhaseTime, timing.TimePlugin{Clock: clock})
	app.AddPluginsAt(ecs.PhaseTiming, p)
	ecs.InitResource[observed](app.World())
	app.AddSystems(ecs.Update, ecs.NewSystem("observe", func(_ context.Context, w *ecs.World) error {
		o := ecs.MustResource[observed](w)
		o.deltas = append(o.deltas, ecs.MustResource[timing.Clock[timing.Generic]](w).DeltaSeconds())
		return nil
	}).After("timing.override_time"))
	require.NoError(t, app.Finish())
	return app
}

func visualPass(t *testing.T, app *ecs.App, dt float64) {
	t.Helper()
	timing.RecordVisualDelta(app.World(), dt)
	end, err := tick.Begin(app.World(), tick.Visual)
	require.NoError(t, err)
	defer end()
	require.NoError(t, app.Update(context.Background()))
}

func physicsPass(t *testing.T, app *ecs.App, dt float64) {
	t.Helper()
	timing.RecordPhysicsDelta(app.World(), dt)
	end, err := tick.Begin(app.World(), tick.Physics)
	require.NoError(t, err)
	defer end()
	require.NoError(t, app.Update(context.Background()))
}

func lastDelta(app *ecs.App) float64 {
	o := ecs.MustResource[observed](app.World())
	return o.deltas[len(o.deltas)-1]
}

func TestVisualDeltaBelowCapPassesThrough(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{})

	visualPass(t, app, 0.016)

	assert.InDelta(t, 0.016, lastDelta(app), 1e-9)
}

func TestVisualDeltaAboveCapIsClamped(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{})

	visualPass(t, app, 1.0)

	assert.InDelta(t, 0.250, lastDelta(app), 1e-9)
}

func TestRelativeSpeedScalesDelta(t *testing.T) {
	speed := 2.0
	app := newTimingApp(t, timing.Plugin{RelativeSpeed: &speed})

	visualPass(t, app, 0.016)
	assert.InDelta(t, 0.032, lastDelta(app), 1e-9)

	visualPass(t, app, 0.2)
	assert.InDelta(t, 0.250, lastDelta(app), 1e-9, "cap applies after scaling")
}

func TestZeroRelativeSpeedFreezesClock(t *testing.T) {
	speed := 0.0
	app := newTimingApp(t, timing.Plugin{RelativeSpeed: &speed})

	visualPass(t, app, 0.016)

	assert.InDelta(t, 0, lastDelta(app), 0)
	virt := ecs.MustResource[timing.Clock[timing.Virtual]](app.World())
	assert.InDelta(t, 0, virt.ContextMut().RelativeSpeed(), 0)
}

func TestConfiguredMaxDelta(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{MaxDelta: 100 * time.Millisecond})

	visualPass(t, app, 0.5)

	assert.InDelta(t, 0.100, lastDelta(app), 1e-9)
	virt := ecs.MustResource[timing.Clock[timing.Virtual]](app.World())
	assert.Equal(t, 100*time.Millisecond, virt.ContextMut().MaxDelta())
}

func TestPauseFlagIsCopied(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{})
	virt := ecs.MustResource[timing.Clock[timing.Virtual]](app.World())
	custom := ecs.MustResource[timing.Clock[timing.CTime]](app.World())

	virt.ContextMut().Pause()
	visualPass(t, app, 0.016)
	assert.True(t, custom.Context().IsPaused)

	virt.ContextMut().Unpause()
	visualPass(t, app, 0.016)
	assert.False(t, custom.Context().IsPaused)
}

func TestOverrideRepublishesBeforeEveryStage(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{})

	var seen []time.Duration
	snapshot := func(name string) *ecs.System {
		return ecs.NewSystem(name, func(_ context.Context, w *ecs.World) error {
			seen = append(seen, ecs.MustResource[timing.Clock[timing.Generic]](w).Delta())
			return nil
		}).After("timing.override_time")
	}
	tamper := ecs.NewSystem("tamper", func(_ context.Context, w *ecs.World) error {
		g := ecs.MustResource[timing.Clock[timing.Generic]](w)
		g.AdvanceBy(time.Hour)
		return nil
	})
	app.AddSystems(ecs.PreUpdate, snapshot("pre"), tamper.After("pre"))
	app.AddSystems(ecs.Update, snapshot("update"))
	app.AddSystems(ecs.PostUpdate, snapshot("post"))

	visualPass(t, app, 0.016)

	require.Len(t, seen, 3)
	for _, d := range seen {
		assert.Equal(t, 16*time.Millisecond, d)
	}

	timing.OverrideTime(app.World())
	timing.OverrideTime(app.World())
	g := ecs.MustResource[timing.Clock[timing.Generic]](app.World())
	assert.Equal(t, 16*time.Millisecond, g.Delta(), "repeated overrides are idempotent")
}

func TestPhysicsPassKeepsCustomClockAndAdvancesFixed(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{})
	custom := ecs.MustResource[timing.Clock[timing.CTime]](app.World())
	fixed := ecs.MustResource[timing.Clock[timing.Fixed]](app.World())

	visualPass(t, app, 0.016)
	elapsed := custom.Elapsed()

	physicsPass(t, app, 0.02)

	assert.InDelta(t, 0.02, custom.Context().PhysicsDelta, 0, "physics delta is stored verbatim")
	assert.InDelta(t, 0.016, custom.Context().VisualDelta, 0)
	assert.Equal(t, elapsed, custom.Elapsed(), "custom clock does not count physics time")
	assert.InDelta(t, 0.0, lastDelta(app), 0)
	assert.Equal(t, 20*time.Millisecond, fixed.Delta())
	assert.Equal(t, uint64(1), fixed.Context().Steps)
}

func TestFrameCountIncrementsPerCapture(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{})

	visualPass(t, app, 0.016)
	physicsPass(t, app, 0.02)
	visualPass(t, app, 0.016)

	custom := ecs.MustResource[timing.Clock[timing.CTime]](app.World())
	assert.Equal(t, uint64(3), custom.Context().FrameCount)
}

func TestSourceVirtualUsesVirtualDelta(t *testing.T) {
	app := newTimingApp(t, timing.Plugin{Source: timing.SourceVirtual})

	visualPass(t, app, 0.016)
	assert.InDelta(t, 0.0, lastDelta(app), 0, "first real update advances by zero")

	visualPass(t, app, 0.016)
	assert.InDelta(t, 0.250, lastDelta(app), 1e-9, "fake clock steps one second, capped")
}

func TestRecordDeltas(t *testing.T) {
	t.Run("no custom clock is a no-op", func(t *testing.T) {
		w := ecs.NewWorld()

		assert.False(t, timing.RecordVisualDelta(w, 0.016))
		assert.False(t, timing.RecordPhysicsDelta(w, 0.016))
		assert.False(t, ecs.HasResource[timing.Clock[timing.CTime]](w))
	})

	tests := []struct {
		name  string
		in    float64
		want  float64
		valid bool
	}{
		{"valid", 0.016, 0.016, true},
		{"zero", 0, 0, true},
		{"negative", -0.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ecs.InsertResource(w, timing.NewClock(timing.CTime{VisualDelta: 9, PhysicsDelta: 9}))

			assert.Equal(t, tt.valid, timing.RecordVisualDelta(w, tt.in))
			assert.Equal(t, tt.valid, timing.RecordPhysicsDelta(w, tt.in))

			c := ecs.MustResource[timing.Clock[timing.CTime]](w).Context()
			assert.InDelta(t, tt.want, c.VisualDelta, 0)
			assert.InDelta(t, tt.want, c.PhysicsDelta, 0)
		})
	}
}

func TestPluginRequiresTimePlugin(t *testing.T) {
	app := ecs.NewApp()
	app.AddPluginsAt(ecs.PhaseTiming, timing.Plugin{})

	err := app.Finish()

	assert.ErrorIs(t, err, ecs.ErrPluginOrder)
}

func TestPluginRejectsUnknownSource(t *testing.T) {
	app := ecs.NewApp()
	app.AddPluginsAt(ecs.PhaseTime, timing.TimePlugin{})
	app.AddPluginsAt(ecs.PhaseTiming, timing.Plugin{Source: "sundial"})

	err := app.Finish()

	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    timing.Source
		wantErr bool
	}{
		{"", timing.SourceHost, false},
		{"host", timing.SourceHost, false},
		{"virtual", timing.SourceVirtual, false},
		{"wall", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := timing.ParseSource(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
