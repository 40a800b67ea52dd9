package timing

import (
	"math"
	"time"

	"github.com/aelexs/tickhost/internal/domain"
)

// Virtual is the context of the game clock: scaled, pausable and capped
// real time.
type Virtual struct {
	maxDelta      time.Duration
	paused        bool
	relativeSpeed float64
}

// NewVirtual returns a running virtual context with the default cap and
// speed.
func NewVirtual() Virtual {
	return Virtual{maxDelta: domain.MaxDeltaTime, relativeSpeed: domain.DefaultRelativeSpeed}
}

// MaxDelta is the largest real delta a single advance accepts.
func (v *Virtual) MaxDelta() time.Duration { return v.maxDelta }

// SetMaxDelta changes the cap. Non-positive values are ignored.
func (v *Virtual) SetMaxDelta(d time.Duration) {
	if d > 0 {
		v.maxDelta = d
	}
}

// RelativeSpeed is the timescale applied to real time.
func (v *Virtual) RelativeSpeed() float64 { return v.relativeSpeed }

// SetRelativeSpeed changes the timescale. Negative and non-finite values are
// ignored.
func (v *Virtual) SetRelativeSpeed(r float64) {
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return
	}
	v.relativeSpeed = r
}

// EffectiveSpeed is zero while paused and RelativeSpeed otherwise.
func (v *Virtual) EffectiveSpeed() float64 {
	if v.paused {
		return 0
	}
	return v.relativeSpeed
}

// Pause stops the virtual clock from advancing.
func (v *Virtual) Pause() { v.paused = true }

// Unpause resumes the virtual clock.
func (v *Virtual) Unpause() { v.paused = false }

// IsPaused reports whether the virtual clock is paused.
func (v *Virtual) IsPaused() bool { return v.paused }

// AdvanceVirtual caps realDelta at the max delta, scales it by the
// effective speed and advances the clock by the result.
func AdvanceVirtual(c *Clock[Virtual], realDelta time.Duration) {
	ctx := c.ContextMut()
	if realDelta > ctx.maxDelta {
		realDelta = ctx.maxDelta
	}
	c.AdvanceBy(scale(realDelta, ctx.EffectiveSpeed()))
}

// Real is the context of the wall clock.
type Real struct {
	startup time.Time
	last    time.Time
}

// NewReal returns a real context started at now.
func NewReal(now time.Time) Real {
	return Real{startup: now}
}

// Startup is when the clock was created.
func (r *Real) Startup() time.Time { return r.startup }

// AdvanceReal advances the clock by the time since its previous update.
// The first update records now and advances by zero.
func AdvanceReal(c *Clock[Real], now time.Time) {
	ctx := c.ContextMut()
	if ctx.last.IsZero() {
		ctx.last = now
		c.AdvanceBy(0)
		return
	}
	d := now.Sub(ctx.last)
	ctx.last = now
	c.AdvanceBy(d)
}

// Fixed is the context of the clock fed by physics callbacks.
type Fixed struct {
	Steps uint64
}

func scale(d time.Duration, factor float64) time.Duration {
	if factor == 1 {
		return d
	}
	return time.Duration(float64(d) * factor)
}
