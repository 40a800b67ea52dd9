package ecs

// Stage groups systems that run at the same point of a pass.
type Stage int

const (
	Startup    Stage = iota // once, at the start of the first pass
	First                   // clocks tick here
	PreUpdate               // engine-side preparation
	Update                  // application logic
	PostUpdate              // propagation and reactions
	Last                    // bookkeeping (frame count, diagnostics)
)

// passStages are run, in order, by every pass.
var passStages = []Stage{First, PreUpdate, Update, PostUpdate, Last}

// allStages lists every stage in execution order.
var allStages = append([]Stage{Startup}, passStages...)

func (s Stage) String() string {
	switch s {
	case Startup:
		return "startup"
	case First:
		return "first"
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case Last:
		return "last"
	default:
		return "unknown"
	}
}
