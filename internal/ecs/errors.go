package ecs

import (
	"errors"
	"fmt"
)

// Sentinel errors for schedule and plugin problems.
var (
	ErrResourceMissing = errors.New("resource does not exist")
	ErrPluginOrder     = errors.New("plugin built before its requirements")
	ErrDuplicatePlugin = errors.New("plugin already added")
	ErrDuplicateSystem = errors.New("system name already used in stage")
	ErrScheduleCycle   = errors.New("system ordering contains a cycle")
	ErrAlreadyFinished = errors.New("app already finished building")
)

// PanicError carries a panic recovered from a system that ran on the task
// pool. Panics on the driving goroutine are not converted; they propagate to
// the caller of Update.
type PanicError struct {
	System string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("system %s panicked: %v", e.System, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
