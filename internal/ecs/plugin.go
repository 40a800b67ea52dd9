package ecs

// Plugin bundles resources and systems that are attached to an App together.
type Plugin interface {
	Name() string
	Build(app *App) error
}

// Requirer is implemented by plugins that read resources another plugin
// initializes. Every named plugin must be built before this one.
type Requirer interface {
	Requires() []string
}

// Phase is a slot in the build sequence. Plugins are built in ascending
// phase; within a phase, in the order they were added.
type Phase int

const (
	PhaseTaskPool Phase = iota
	PhaseLog
	PhaseTypes
	PhaseFrameCount
	PhaseDiagnostics
	PhaseTime
	PhaseTiming
	PhaseHierarchy
	PhaseScene
	PhaseSceneTree
	PhaseAssets
	PhaseUser
)

func (p Phase) String() string {
	switch p {
	case PhaseTaskPool:
		return "task_pool"
	case PhaseLog:
		return "log"
	case PhaseTypes:
		return "types"
	case PhaseFrameCount:
		return "frame_count"
	case PhaseDiagnostics:
		return "diagnostics"
	case PhaseTime:
		return "time"
	case PhaseTiming:
		return "timing"
	case PhaseHierarchy:
		return "hierarchy"
	case PhaseScene:
		return "scene"
	case PhaseSceneTree:
		return "scene_tree"
	case PhaseAssets:
		return "assets"
	case PhaseUser:
		return "user"
	default:
		return "unknown"
	}
}

type funcPlugin struct {
	name  string
	build func(app *App) error
}

func (p funcPlugin) Name() string { return p.name }

func (p funcPlugin) Build(app *App) error { return p.build(app) }

// NewPlugin adapts a build function into a Plugin.
func NewPlugin(name string, build func(app *App) error) Plugin {
	return funcPlugin{name: name, build: build}
}
