// Package ecs is the embedded, tick-driven runtime hosted inside the engine.
//
// An App owns a World of typed resources and a schedule of systems grouped
// into stages. One call to App.Update is one scheduler pass:
//
//	Startup (first pass only) -> First -> PreUpdate -> Update -> PostUpdate -> Last
//
// Systems inside a stage run in registration order unless reordered by
// After constraints. Run conditions (see ResourceExists) let a system opt out
// of a pass without changing its signature.
//
// Plugins are attached at an explicit Phase. App.Finish builds them in phase
// order and fails with ErrPluginOrder when a plugin's declared requirements
// were not built before it, so a reordered build sequence is caught before
// the first pass instead of surfacing as a missing resource mid-pass.
//
// An App is not safe for concurrent use. Parallelism inside a pass goes
// through a TaskPool resource (see Concurrent) and completes before Update
// returns.
package ecs
