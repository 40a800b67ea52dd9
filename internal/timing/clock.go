// Package timing implements the clocks of the embedded app and the pipeline
// that reconciles the host's two callback deltas into one authoritative
// clock.
//
// Clock[Generic] is the clock systems read. It is rewritten from the custom
// clock, Clock[CTime], at the start of every pass and again before each of
// the PreUpdate, Update and PostUpdate stages, so whatever the generic time
// plugin or any other writer stores in between is never observed.
package timing

import "time"

// Generic is the context of the clock every system reads.
type Generic struct{}

// Clock tracks the delta of the latest advance and the total elapsed time.
// T carries clock-specific state.
type Clock[T any] struct {
	delta   time.Duration
	elapsed time.Duration
	context T
}

// NewClock returns a clock at zero with the given context.
func NewClock[T any](context T) Clock[T] {
	return Clock[T]{context: context}
}

// Delta is the duration of the latest advance.
func (c *Clock[T]) Delta() time.Duration { return c.delta }

// DeltaSeconds is Delta in seconds.
func (c *Clock[T]) DeltaSeconds() float64 { return c.delta.Seconds() }

// Elapsed is the sum of every advance.
func (c *Clock[T]) Elapsed() time.Duration { return c.elapsed }

// ElapsedSeconds is Elapsed in seconds.
func (c *Clock[T]) ElapsedSeconds() float64 { return c.elapsed.Seconds() }

// Context returns a copy of the clock's context.
func (c *Clock[T]) Context() T { return c.context }

// ContextMut returns the clock's context for in-place updates.
func (c *Clock[T]) ContextMut() *T { return &c.context }

// AdvanceBy records d as the latest delta and adds it to elapsed.
// Negative durations are treated as zero.
func (c *Clock[T]) AdvanceBy(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.delta = d
	c.elapsed += d
}

// AsGeneric copies delta and elapsed into a generic clock.
func (c *Clock[T]) AsGeneric() Clock[Generic] {
	return Clock[Generic]{delta: c.delta, elapsed: c.elapsed}
}
