package domain

import "time"

// Compiled defaults. Each can be overridden through configuration.
const (
	// Time reconciliation
	MaxDeltaTime         = 250 * time.Millisecond // Ceiling for one pass's clock increment
	DefaultRelativeSpeed = 1.0                    // Timescale multiplier (1 = real time)

	// Headless host cadence
	DefaultVisualHz  = 60 // Display refresh cadence
	DefaultPhysicsHz = 50 // Fixed physics step cadence

	// Task pool
	DefaultTaskPoolWorkers = 4 // Max goroutines for one concurrent system set

	// Graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
	ShutdownDrainDelay      = 200 * time.Millisecond // Lets health probes observe 503
	ShutdownHTTPTimeout     = 3 * time.Second
	ShutdownOTELTimeout     = 3 * time.Second
)

// DrainOrder selects the order in which calls deferred before the app exists
// are replayed once it does.
type DrainOrder string

const (
	DrainReverse DrainOrder = "lifo"
	DrainArrival DrainOrder = "fifo"
)

// IsValidDrainOrder checks if a drain order is supported.
func IsValidDrainOrder(o DrainOrder) bool {
	return o == DrainReverse || o == DrainArrival
}
