package timing

import (
	"math"

	"github.com/aelexs/tickhost/internal/ecs"
)

// CTime is the context of the custom clock: the raw deltas the host reported
// and the state copied from the virtual clock on each capture.
//
// VisualDelta and PhysicsDelta are seconds and are always finite and
// non-negative.
type CTime struct {
	FrameCount   uint64
	IsPaused     bool
	VisualDelta  float64
	PhysicsDelta float64
}

// RecordVisualDelta stores the visual callback's delta. It is a no-op and
// returns false when the custom clock does not exist. Negative, NaN and
// infinite values are stored as zero and reported as false.
func RecordVisualDelta(w *ecs.World, seconds float64) bool {
	c, ok := ecs.Resource[Clock[CTime]](w)
	if !ok {
		return false
	}
	v, valid := sanitize(seconds)
	c.ContextMut().VisualDelta = v
	return valid
}

// RecordPhysicsDelta is RecordVisualDelta for the physics callback.
func RecordPhysicsDelta(w *ecs.World, seconds float64) bool {
	c, ok := ecs.Resource[Clock[CTime]](w)
	if !ok {
		return false
	}
	v, valid := sanitize(seconds)
	c.ContextMut().PhysicsDelta = v
	return valid
}

func sanitize(seconds float64) (float64, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, false
	}
	return seconds, true
}
