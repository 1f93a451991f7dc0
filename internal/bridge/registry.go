package bridge

import (
	"errors"
	"sync"
)

// ErrEmptyScript is returned when registering an empty script.
var ErrEmptyScript = errors.New("bridge: script cannot be empty")

// Registry is the ordered list of scripts injected at document start. The
// bootstrap script is always entry 0; later entries keep registration order.
type Registry struct {
	mu      sync.RWMutex
	scripts []string
}

// NewRegistry returns a registry seeded with the bootstrap for ch.
func NewRegistry(ch Channel) *Registry {
	return &Registry{scripts: []string{Bootstrap(ch)}}
}

// Add appends script and returns its position.
func (r *Registry) Add(script string) (int, error) {
	if script == "" {
		return 0, ErrEmptyScript
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts = append(r.scripts, script)
	return len(r.scripts) - 1, nil
}

// Scripts returns a copy of the registered scripts in injection order.
func (r *Registry) Scripts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.scripts))
	copy(out, r.scripts)
	return out
}

// Len returns the number of registered scripts, bootstrap included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scripts)
}
