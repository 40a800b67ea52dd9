// Package tick defines the frame-kind markers the host inserts around each
// scheduler pass, and the helpers that gate systems on them.
//
// Exactly one marker is present during a pass and none between passes.
// Systems never receive the tick kind as a parameter; they read it from the
// world, or are gated with OnVisual / OnPhysics.
package tick

import (
	"errors"
	"fmt"

	"github.com/aelexs/tickhost/internal/ecs"
)

// Kind identifies which host callback triggered a pass.
type Kind int

const (
	Visual Kind = iota
	Physics
)

func (k Kind) String() string {
	switch k {
	case Visual:
		return "visual"
	case Physics:
		return "physics"
	default:
		return "unknown"
	}
}

// VisualFrame is present while a pass triggered by the visual callback runs.
type VisualFrame struct{}

// PhysicsFrame is present while a pass triggered by the physics callback runs.
type PhysicsFrame struct{}

// ErrMarkerPresent is returned by Begin when a marker is already in the world.
var ErrMarkerPresent = errors.New("frame marker already present")

// Begin inserts the marker for kind and returns the function that removes
// it. Callers defer the returned function so the marker is gone after the
// pass whether or not it faulted.
func Begin(w *ecs.World, kind Kind) (end func(), err error) {
	if current, ok := Current(w); ok {
		return nil, fmt.Errorf("%w: %s", ErrMarkerPresent, current)
	}
	switch kind {
	case Visual:
		ecs.InsertResource(w, VisualFrame{})
		return func() { ecs.RemoveResource[VisualFrame](w) }, nil
	case Physics:
		ecs.InsertResource(w, PhysicsFrame{})
		return func() { ecs.RemoveResource[PhysicsFrame](w) }, nil
	default:
		return nil, fmt.Errorf("unknown tick kind %d", int(kind))
	}
}

// Current returns the kind of the running pass, if any.
func Current(w *ecs.World) (Kind, bool) {
	switch {
	case IsVisual(w):
		return Visual, true
	case IsPhysics(w):
		return Physics, true
	default:
		return 0, false
	}
}

// IsVisual reports whether the visual marker is present.
func IsVisual(w *ecs.World) bool { return ecs.HasResource[VisualFrame](w) }

// IsPhysics reports whether the physics marker is present.
func IsPhysics(w *ecs.World) bool { return ecs.HasResource[PhysicsFrame](w) }

// OnVisual gates s so it only runs during visual passes.
func OnVisual(s *ecs.System) *ecs.System {
	return s.RunIf(ecs.ResourceExists[VisualFrame]())
}

// OnPhysics gates s so it only runs during physics passes.
func OnPhysics(s *ecs.System) *ecs.System {
	return s.RunIf(ecs.ResourceExists[PhysicsFrame]())
}
