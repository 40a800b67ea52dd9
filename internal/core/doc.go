// Package core holds the plugins every embedded app is built with before
// the time pipeline: the task pool, the logger, the type registry, the
// frame counter and pass diagnostics.
package core
