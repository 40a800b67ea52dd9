// Package headless stands in for a host engine: it delivers visual frames
// and physics steps to a host on two independent cadences from a single
// goroutine, and publishes read-only snapshots for the ops endpoints.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
)

// Host is the callback surface the driver drives.
type Host interface {
	VisualTick(ctx context.Context, delta float64) error
	PhysicsTick(ctx context.Context, delta float64) error
	Describe() (ecs.Description, error)
}

// Status is the driver's lifecycle state.
type Status int32

const (
	StatusStarting Status = iota
	StatusRunning
	StatusFaulted
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusFaulted:
		return "faulted"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config holds the driver cadence.
type Config struct {
	VisualHz  int          // Zero uses domain.DefaultVisualHz
	PhysicsHz int          // Zero uses domain.DefaultPhysicsHz
	Clock     domain.Clock // Measures visual frame deltas; nil uses domain.RealClock
	Logger    *slog.Logger
}

// Stats counts delivered callbacks.
type Stats struct {
	VisualFrames uint64 `yaml:"visual_frames" json:"visual_frames"`
	PhysicsSteps uint64 `yaml:"physics_steps" json:"physics_steps"`
}

// Driver delivers callbacks to a Host. Frame, Step and Run must be called
// from one goroutine; the accessors are safe from any goroutine.
type Driver struct {
	host   Host
	cfg    Config
	logger *slog.Logger

	lastFrame time.Time

	status       atomic.Int32
	visualFrames atomic.Uint64
	physicsSteps atomic.Uint64
	schedule     atomic.Pointer[ecs.Description]
	fault        atomic.Pointer[error]
}

// New creates a driver for h.
func New(h Host, cfg Config) *Driver {
	if cfg.VisualHz <= 0 {
		cfg.VisualHz = domain.DefaultVisualHz
	}
	if cfg.PhysicsHz <= 0 {
		cfg.PhysicsHz = domain.DefaultPhysicsHz
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Driver{host: h, cfg: cfg, logger: cfg.Logger}
}

// PhysicsStep is the fixed delta handed to every physics callback.
func (d *Driver) PhysicsStep() time.Duration {
	return time.Second / time.Duration(d.cfg.PhysicsHz)
}

// Frame delivers one visual callback with the wall time since the previous
// frame. The first frame reports zero.
func (d *Driver) Frame(ctx context.Context) error {
	now := d.cfg.Clock.Now()
	var delta time.Duration
	if !d.lastFrame.IsZero() {
		delta = now.Sub(d.lastFrame)
	}
	d.lastFrame = now

	if err := d.host.VisualTick(ctx, delta.Seconds()); err != nil {
		return d.fail(fmt.Errorf("visual frame: %w", err))
	}
	n := d.visualFrames.Add(1)
	if n == 1 || n%uint64(d.cfg.VisualHz) == 0 {
		d.Publish()
	}
	return nil
}

// Step delivers one physics callback with the fixed step delta.
func (d *Driver) Step(ctx context.Context) error {
	if err := d.host.PhysicsTick(ctx, d.PhysicsStep().Seconds()); err != nil {
		return d.fail(fmt.Errorf("physics step: %w", err))
	}
	d.physicsSteps.Add(1)
	return nil
}

// Run delivers callbacks until ctx is canceled or a callback fails.
// Cancellation returns nil.
func (d *Driver) Run(ctx context.Context) error {
	visual := time.NewTicker(time.Second / time.Duration(d.cfg.VisualHz))
	defer visual.Stop()
	physics := time.NewTicker(d.PhysicsStep())
	defer physics.Stop()

	d.status.Store(int32(StatusRunning))
	d.Publish()
	d.logger.Info("headless driver started",
		slog.Int("visual_hz", d.cfg.VisualHz),
		slog.Int("physics_hz", d.cfg.PhysicsHz),
	)

	for {
		select {
		case <-ctx.Done():
			d.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopped))
			d.logger.Info("headless driver stopped",
				slog.Uint64("visual_frames", d.visualFrames.Load()),
				slog.Uint64("physics_steps", d.physicsSteps.Load()),
			)
			return nil
		case <-physics.C:
			if err := d.Step(ctx); err != nil {
				return err
			}
		case <-visual.C:
			if err := d.Frame(ctx); err != nil {
				return err
			}
		}
	}
}

func (d *Driver) fail(err error) error {
	d.fault.Store(&err)
	d.status.Store(int32(StatusFaulted))
	return err
}

// Publish snapshots the host's schedule for readers on other goroutines.
// It keeps the previous snapshot if the host has none.
func (d *Driver) Publish() {
	desc, err := d.host.Describe()
	if err != nil {
		return
	}
	d.schedule.Store(&desc)
}

// Status returns the lifecycle state.
func (d *Driver) Status() Status { return Status(d.status.Load()) }

// Stats returns the callback counters.
func (d *Driver) Stats() Stats {
	return Stats{VisualFrames: d.visualFrames.Load(), PhysicsSteps: d.physicsSteps.Load()}
}

// Schedule returns the latest published snapshot.
func (d *Driver) Schedule() (ecs.Description, bool) {
	p := d.schedule.Load()
	if p == nil {
		return ecs.Description{}, false
	}
	return *p, true
}

// Err returns the callback error that faulted the driver, or nil.
func (d *Driver) Err() error {
	if p := d.fault.Load(); p != nil {
		return *p
	}
	return nil
}

// Health maps the status to the error the health endpoint reports.
func (d *Driver) Health() error {
	switch d.Status() {
	case StatusRunning:
		return nil
	case StatusFaulted:
		return fmt.Errorf("%w: %w", domain.ErrHostFaulted, d.Err())
	default:
		return domain.ErrNotReady
	}
}
