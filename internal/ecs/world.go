package ecs

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// World stores resources keyed by their Go type.
//
// Send resources may be read by systems running on the task pool. Non-send
// resources hold handles that must stay on the goroutine driving the App
// (for example the host's scene tree) and are kept in a separate table so
// they never appear in a concurrent set's view by accident.
type World struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
	nonSend   map[reflect.Type]any
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		resources: make(map[reflect.Type]any),
		nonSend:   make(map[reflect.Type]any),
	}
}

// InsertResource stores value, replacing any previous resource of type T.
func InsertResource[T any](w *World, value T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resources[reflect.TypeFor[T]()] = &value
}

// InitResource stores the zero value of T unless a T already exists.
func InitResource[T any](w *World) {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := reflect.TypeFor[T]()
	if _, ok := w.resources[key]; ok {
		return
	}
	var zero T
	w.resources[key] = &zero
}

// Resource returns a pointer to the stored T. Mutations through the pointer
// are visible to every later reader.
func Resource[T any](w *World) (*T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// MustResource is Resource for systems whose plugin guarantees T exists.
// It panics with an error wrapping ErrResourceMissing otherwise.
func MustResource[T any](w *World) *T {
	v, ok := Resource[T](w)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrResourceMissing, reflect.TypeFor[T]()))
	}
	return v
}

// HasResource reports whether a T is stored.
func HasResource[T any](w *World) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.resources[reflect.TypeFor[T]()]
	return ok
}

// RemoveResource deletes the stored T and returns it.
func RemoveResource[T any](w *World) (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := reflect.TypeFor[T]()
	v, ok := w.resources[key]
	if !ok {
		var zero T
		return zero, false
	}
	delete(w.resources, key)
	return *v.(*T), true
}

// InsertNonSend stores a thread-confined resource.
func InsertNonSend[T any](w *World, value T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nonSend[reflect.TypeFor[T]()] = &value
}

// NonSend returns the thread-confined T. Only call it from the goroutine
// that drives the App, never from a system inside a Concurrent set.
func NonSend[T any](w *World) (*T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.nonSend[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// ResourceTypes lists the type names of all stored resources, sorted.
// Non-send resources are suffixed with " (non-send)".
func (w *World) ResourceTypes() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.resources)+len(w.nonSend))
	for t := range w.resources {
		names = append(names, t.String())
	}
	for t := range w.nonSend {
		names = append(names, t.String()+" (non-send)")
	}
	sort.Strings(names)
	return names
}
