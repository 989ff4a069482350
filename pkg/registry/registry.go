// Package registry tracks the open playback controllers of an
// application.
//
// The registry is explicit and injectable: it is created at
// application start, owned by the top-level context, and torn down
// once with ShutdownAll. Nothing here relies on process-wide globals
// or exit hooks.
package registry

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/user/camstream/pkg/controller"
	"github.com/user/camstream/pkg/ports"
)

// Registry holds the controllers currently open in this process.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*controller.Controller
	log         ports.Logger
	shutdown    bool
}

// New creates an empty registry.
func New(log ports.Logger) *Registry {
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Registry{
		controllers: make(map[string]*controller.Controller),
		log:         log.WithComponent("registry"),
	}
}

// Register adds a controller and returns its registration id.
func (r *Registry) Register(c *controller.Controller) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shutdown {
		return "", errors.New("registry: already shut down")
	}
	id := uuid.NewString()
	r.controllers[id] = c
	r.log.Debug("Registered pipeline %s (%d open)", id, len(r.controllers))
	return id, nil
}

// Unregister removes a controller without closing it.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, id)
	r.log.Debug("Unregistered pipeline %s (%d open)", id, len(r.controllers))
}

// Count returns the number of registered controllers.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// ShutdownAll closes every registered controller. Called once at
// application shutdown; subsequent registrations are refused. Returns
// the first close error encountered, after attempting all of them.
func (r *Registry) ShutdownAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shutdown = true
	var firstErr error
	for id, c := range r.controllers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.controllers, id)
	}
	r.log.Debug("All pipelines shut down")
	return firstErr
}
