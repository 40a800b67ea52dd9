// Package host embeds one app in a host engine. The engine builds it once
// through Init and then drives it through VisualTick and PhysicsTick; each
// tick runs exactly one scheduler pass inside a fault boundary.
//
// A Host is not safe for concurrent use. All of its methods must be called
// from the goroutine that delivers the engine's callbacks.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelexs/tickhost/internal/core"
	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/observability"
	"github.com/aelexs/tickhost/internal/tick"
	"github.com/aelexs/tickhost/internal/timing"
)

var tracer = observability.Tracer("tickhost/host")

var (
	ticksTotal         metric.Int64Counter
	skippedTicksTotal  metric.Int64Counter
	passFaultsTotal    metric.Int64Counter
	deferredCallsTotal metric.Int64Counter
)

func init() {
	m := observability.Meter("tickhost/host")

	ticksTotal, _ = m.Int64Counter("host_ticks_total",
		metric.WithDescription("Total host callbacks that ran a pass"))
	skippedTicksTotal, _ = m.Int64Counter("host_ticks_skipped_total",
		metric.WithDescription("Total host callbacks received before the app was built"))
	passFaultsTotal, _ = m.Int64Counter("host_pass_faults_total",
		metric.WithDescription("Total faulted passes"))
	deferredCallsTotal, _ = m.Int64Counter("host_deferred_calls_total",
		metric.WithDescription("Total calls queued until the app was built"))
}

// Config holds the collaborators and settings of a Host.
type Config struct {
	Engine      Engine       // Nil means never in editor mode
	Integration Integration  // Nil means NopIntegration
	Builders    *BuilderSlot // Nil means DefaultBuilders
	Assets      []ecs.Plugin // Attached after the integration plugins
	Logger      *slog.Logger // Nil means slog.Default()
	Clock       domain.Clock // Nil means domain.RealClock
	Meter       metric.Meter // Diagnostics meter; nil means the global provider

	MaxDelta      time.Duration
	RelativeSpeed *float64 // Nil means domain.DefaultRelativeSpeed
	TimingSource  timing.Source
	Workers       int
	DrainOrder    domain.DrainOrder
}

// Host owns the embedded app.
type Host struct {
	cfg    Config
	logger *slog.Logger
	slot   *Slot

	instanceID  string
	initialized bool
	fault       error
}

// New creates a Host. No app exists until Init.
func New(cfg Config) *Host {
	if cfg.Integration == nil {
		cfg.Integration = NopIntegration{}
	}
	if cfg.Builders == nil {
		cfg.Builders = DefaultBuilders
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.RealClock{}
	}
	return &Host{
		cfg:    cfg,
		logger: cfg.Logger,
		slot:   NewSlot(cfg.DrainOrder, cfg.Logger),
	}
}

func (h *Host) editor() bool {
	return h.cfg.Engine != nil && h.cfg.Engine.IsEditorHint()
}

// Slot returns the instance slot, for deferring calls with WithInstance.
func (h *Host) Slot() *Slot { return h.slot }

// InstanceID identifies the built app in logs and spans. Empty before Init.
func (h *Host) InstanceID() string { return h.instanceID }

// Ready reports whether the app has been built.
func (h *Host) Ready() bool {
	_, ok := h.slot.Get()
	return ok
}

// Fault returns the error that poisoned the host, or nil.
func (h *Host) Fault() error { return h.fault }

// Init builds the app: the registered builder first, then the core
// plugins, the time pipeline and the integration plugins in fixed phase
// order. It does nothing in editor mode or when the app already exists.
func (h *Host) Init(ctx context.Context) error {
	if h.editor() {
		h.logger.Debug("editor mode, app not built")
		return nil
	}
	if h.initialized {
		return nil
	}

	builder, ok := h.cfg.Builders.Get()
	if !ok {
		return domain.ErrBuilderMissing
	}

	_, span := tracer.Start(ctx, "host.init")
	defer span.End()

	id := uuid.NewString()
	logger := h.logger.With(slog.String("instance_id", id))
	span.SetAttributes(attribute.String("instance_id", id))

	app := ecs.NewApp()
	builder(app)

	app.AddPluginsAt(ecs.PhaseTaskPool, core.TaskPoolPlugin{Workers: h.cfg.Workers})
	app.AddPluginsAt(ecs.PhaseLog, core.LogPlugin{Logger: logger})
	app.AddPluginsAt(ecs.PhaseTypes, core.TypeRegistrationPlugin{})
	app.AddPluginsAt(ecs.PhaseFrameCount, core.FrameCountPlugin{})
	app.AddPluginsAt(ecs.PhaseDiagnostics, core.DiagnosticsPlugin{Meter: h.cfg.Meter, Clock: h.cfg.Clock})
	app.AddPluginsAt(ecs.PhaseTime, timing.TimePlugin{Clock: h.cfg.Clock})
	app.AddPluginsAt(ecs.PhaseTiming, timing.Plugin{
		MaxDelta:      h.cfg.MaxDelta,
		RelativeSpeed: h.cfg.RelativeSpeed,
		Source:        h.cfg.TimingSource,
	})
	app.AddPluginsAt(ecs.PhaseHierarchy, h.cfg.Integration.Hierarchy())
	app.AddPluginsAt(ecs.PhaseScene, h.cfg.Integration.Scenes())
	app.AddPluginsAt(ecs.PhaseSceneTree, sceneTreePlugin(h.cfg.Integration.SceneTree()))
	app.AddPluginsAt(ecs.PhaseAssets, h.cfg.Assets...)

	if err := app.Finish(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return fmt.Errorf("build app: %w", err)
	}

	h.instanceID = id
	h.logger = logger
	h.initialized = true
	h.slot.Set(app)

	logger.Info("app built", slog.Int("plugins", len(app.Plugins())))
	return nil
}

// VisualTick records delta seconds as the visual delta and runs one pass
// with the visual marker present.
func (h *Host) VisualTick(ctx context.Context, delta float64) error {
	return h.tick(ctx, tick.Visual, delta)
}

// PhysicsTick records delta seconds as the physics delta and runs one pass
// with the physics marker present.
func (h *Host) PhysicsTick(ctx context.Context, delta float64) error {
	return h.tick(ctx, tick.Physics, delta)
}

func (h *Host) tick(ctx context.Context, kind tick.Kind, delta float64) error {
	if h.editor() {
		return nil
	}
	if h.fault != nil {
		return fmt.Errorf("%s tick: %w", kind, domain.ErrHostFaulted)
	}

	kindAttr := attribute.String("tick_kind", kind.String())
	app, ok := h.slot.Get()
	if !ok {
		skippedTicksTotal.Add(ctx, 1, metric.WithAttributes(kindAttr))
		h.logger.Debug("tick before app built", slog.String("tick_kind", kind.String()))
		return nil
	}

	ctx, span := tracer.Start(ctx, "host."+kind.String()+"_tick",
		trace.WithAttributes(
			kindAttr,
			attribute.String("instance_id", h.instanceID),
			attribute.Float64("delta", delta),
		),
	)
	defer span.End()

	var valid bool
	if kind == tick.Visual {
		valid = timing.RecordVisualDelta(app.World(), delta)
	} else {
		valid = timing.RecordPhysicsDelta(app.World(), delta)
	}
	if !valid {
		h.logger.Warn("invalid tick delta replaced with zero",
			slog.String("tick_kind", kind.String()),
			slog.Float64("delta", delta),
		)
	}

	if err := runPass(ctx, app, kind); err != nil {
		h.fault = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "pass faulted")
		passFaultsTotal.Add(ctx, 1, metric.WithAttributes(kindAttr))

		attrs := []any{
			slog.String("tick_kind", kind.String()),
			slog.String("error", err.Error()),
		}
		var fe *FaultError
		if errors.As(err, &fe) && fe.Stack != nil {
			attrs = append(attrs, slog.String("stack", string(fe.Stack)))
		}
		observability.WithTraceID(ctx, h.logger).Error("pass faulted", attrs...)
		return err
	}

	ticksTotal.Add(ctx, 1, metric.WithAttributes(kindAttr))
	return nil
}

// runPass runs one pass with the marker for kind present. The marker is
// removed even when the pass fails or panics.
func runPass(ctx context.Context, app *ecs.App, kind tick.Kind) (err error) {
	end, err := tick.Begin(app.World(), kind)
	if err != nil {
		return &FaultError{Kind: kind, Err: err}
	}
	defer end()

	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Kind: kind, Panic: r, Stack: debug.Stack()}
		}
	}()

	if err := app.Update(ctx); err != nil {
		return &FaultError{Kind: kind, Err: err}
	}
	return nil
}

// Describe returns the built app's plugins, stages and resources.
func (h *Host) Describe() (ecs.Description, error) {
	app, ok := h.slot.Get()
	if !ok {
		return ecs.Description{}, domain.ErrNotReady
	}
	return app.Describe()
}
