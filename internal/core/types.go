package core

import (
	"reflect"
	"sort"

	"github.com/aelexs/tickhost/internal/ecs"
)

// TypeRegistry maps type names to reflect types so tooling can resolve the
// resources and markers an app uses by name.
type TypeRegistry struct {
	types map[string]reflect.Type
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Names lists registered type names in sorted order.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TypeRegistrationPlugin installs an empty TypeRegistry and registers the
// core resource types.
type TypeRegistrationPlugin struct{}

func (TypeRegistrationPlugin) Name() string { return "type_registration" }

func (TypeRegistrationPlugin) Build(app *ecs.App) error {
	ecs.InsertResource(app.World(), TypeRegistry{types: make(map[string]reflect.Type)})
	RegisterType[Log](app.World())
	RegisterType[FrameCount](app.World())
	RegisterType[Diagnostics](app.World())
	return nil
}

// RegisterType adds T to the world's TypeRegistry under its qualified name.
// It reports false if no registry exists.
func RegisterType[T any](w *ecs.World) bool {
	r, ok := ecs.Resource[TypeRegistry](w)
	if !ok {
		return false
	}
	if r.types == nil {
		r.types = make(map[string]reflect.Type)
	}
	t := reflect.TypeFor[T]()
	r.types[t.String()] = t
	return true
}
