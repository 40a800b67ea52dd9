package host

import (
	"context"
	"log/slog"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
)

// Slot owns the embedded app and the calls that arrived before it existed.
// It is confined to the goroutine that delivers host callbacks.
type Slot struct {
	app     *ecs.App
	pending []func(*ecs.App)
	order   domain.DrainOrder
	logger  *slog.Logger
}

// NewSlot creates an empty slot. An invalid order falls back to
// domain.DrainReverse.
func NewSlot(order domain.DrainOrder, logger *slog.Logger) *Slot {
	if !domain.IsValidDrainOrder(order) {
		order = domain.DrainReverse
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Slot{order: order, logger: logger}
}

// Get returns the app if it has been built.
func (s *Slot) Get() (*ecs.App, bool) {
	return s.app, s.app != nil
}

// Pending is the number of deferred calls waiting for the app.
func (s *Slot) Pending() int { return len(s.pending) }

// Set stores app. When the slot goes from empty to filled, every deferred
// call runs against app and the queue is cleared. Later calls to Set only
// replace the app.
func (s *Slot) Set(app *ecs.App) {
	wasEmpty := s.app == nil
	s.app = app
	if !wasEmpty || app == nil || len(s.pending) == 0 {
		return
	}

	calls := s.pending
	s.pending = nil
	s.logger.Debug("draining deferred calls",
		slog.Int("count", len(calls)),
		slog.String("order", string(s.order)),
	)
	if s.order == domain.DrainReverse {
		for i := len(calls) - 1; i >= 0; i-- {
			calls[i](app)
		}
		return
	}
	for _, call := range calls {
		call(app)
	}
}

// WithInstance runs f against the app and returns its result. Without an
// app, f is queued to run when the app is set; its result is then discarded
// and WithInstance returns the zero R and false.
func WithInstance[R any](s *Slot, f func(app *ecs.App) R) (R, bool) {
	if app, ok := s.Get(); ok {
		return f(app), true
	}

	s.pending = append(s.pending, func(app *ecs.App) { f(app) })
	deferredCallsTotal.Add(context.Background(), 1)
	s.logger.Debug("app not built, call deferred", slog.Int("pending", len(s.pending)))

	var zero R
	return zero, false
}
