package host

import (
	"github.com/aelexs/tickhost/internal/ecs"
)

// Engine is the part of the host engine the lifecycle consults.
type Engine interface {
	// IsEditorHint reports whether the engine runs inside its editor, where
	// the app is neither built nor ticked.
	IsEditorHint() bool
}

// EditorHint is an Engine with a fixed answer.
type EditorHint bool

func (e EditorHint) IsEditorHint() bool { return bool(e) }

// Integration provides the plugins that bridge the app to the host's scene
// graph. They are attached after the time pipeline.
type Integration interface {
	Hierarchy() ecs.Plugin
	Scenes() ecs.Plugin
	SceneTree() any
}

// SceneTree is the non-send resource holding the host's scene tree handle.
type SceneTree struct {
	Handle any
}

// NopIntegration attaches empty hierarchy and scene plugins and a nil scene
// tree, for hosts with no scene graph.
type NopIntegration struct{}

func (NopIntegration) Hierarchy() ecs.Plugin {
	return ecs.NewPlugin("hierarchy", func(*ecs.App) error { return nil })
}

func (NopIntegration) Scenes() ecs.Plugin {
	return ecs.NewPlugin("packed_scene", func(*ecs.App) error { return nil })
}

func (NopIntegration) SceneTree() any { return nil }

func sceneTreePlugin(handle any) ecs.Plugin {
	return ecs.NewPlugin("scene_tree", func(app *ecs.App) error {
		ecs.InsertNonSend(app.World(), SceneTree{Handle: handle})
		return nil
	})
}
