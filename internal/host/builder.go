package host

import (
	"fmt"
	"sync"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
)

// BuilderFunc customizes a new app before the core plugins are attached.
// Plugins it adds through App.AddPlugins are built after the core set.
type BuilderFunc func(app *ecs.App)

// BuilderSlot holds the one builder function of a process. It is written
// during startup and read once by Host.Init, possibly from another
// goroutine.
type BuilderSlot struct {
	mu sync.Mutex
	fn BuilderFunc
}

// DefaultBuilders is the process-wide slot RegisterBuilder writes to.
var DefaultBuilders = &BuilderSlot{}

// RegisterBuilder stores fn in DefaultBuilders.
func RegisterBuilder(fn BuilderFunc) error {
	return DefaultBuilders.Register(fn)
}

// Register stores fn. Only the first registration is kept.
func (s *BuilderSlot) Register(fn BuilderFunc) error {
	if fn == nil {
		return fmt.Errorf("register nil builder: %w", domain.ErrBuilderMissing)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fn != nil {
		return domain.ErrBuilderAlreadySet
	}
	s.fn = fn
	return nil
}

// Get returns the registered builder.
func (s *BuilderSlot) Get() (BuilderFunc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn, s.fn != nil
}
