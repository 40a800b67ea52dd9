package core

import (
	"log/slog"

	"github.com/aelexs/tickhost/internal/ecs"
)

// Log is the resource holding the app's logger.
type Log struct {
	Logger *slog.Logger
}

// LogPlugin stores a logger in the world. A nil Logger uses slog.Default().
type LogPlugin struct {
	Logger *slog.Logger
}

func (LogPlugin) Name() string { return "log" }

func (p LogPlugin) Build(app *ecs.App) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ecs.InsertResource(app.World(), Log{Logger: logger})
	return nil
}

// Logger returns the world's logger, or slog.Default() if no LogPlugin ran.
func Logger(w *ecs.World) *slog.Logger {
	if l, ok := ecs.Resource[Log](w); ok && l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
