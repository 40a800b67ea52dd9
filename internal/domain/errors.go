package domain

import "errors"

// Sentinel errors for host and runtime conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// Lifecycle errors
	ErrBuilderMissing    = errors.New("no app builder registered")
	ErrBuilderAlreadySet = errors.New("app builder already registered")
	ErrNotReady          = errors.New("embedded app not built yet")
	ErrShuttingDown      = errors.New("host shutting down")

	// Pass errors. A faulted pass poisons the host: every later tick
	// returns ErrHostFaulted.
	ErrPassFault   = errors.New("scheduler pass faulted")
	ErrHostFaulted = errors.New("host stopped after a faulted pass")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
	ErrInvalidConfig  = errors.New("invalid configuration value")
)

// IsFatal reports whether err must terminate the host process.
// Configuration problems and pass faults are never recoverable in place.
func IsFatal(err error) bool {
	return errors.Is(err, ErrPassFault) ||
		errors.Is(err, ErrHostFaulted) ||
		errors.Is(err, ErrBuilderMissing) ||
		errors.Is(err, ErrConfigRequired) ||
		errors.Is(err, ErrInvalidConfig)
}
