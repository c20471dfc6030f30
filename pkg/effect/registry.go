package effect

import "sync"

// Factory creates the processor of a custom effect kind.
type Factory func() Processor

// Registry creates processors for built-in kinds and for custom kinds registered
// by ID. Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[int]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[int]Factory)}
}

// Register installs f for custom id. It reports whether a previous factory was
// replaced. Passing a nil factory unregisters id and reports whether one existed.
func (r *Registry) Register(id int, f Factory) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.factories[id]
	if f == nil {
		delete(r.factories, id)
		return existed
	}
	r.factories[id] = f
	return existed
}

// Registered reports whether a factory is installed for custom id.
func (r *Registry) Registered(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}

// New creates a processor for t.
func (r *Registry) New(t Type) (Processor, error) {
	if t.IsBuiltin() {
		return newBuiltin(t.Kind), nil
	}
	if t.Kind != Custom {
		return nil, ErrUnknownKind
	}

	r.mu.RLock()
	f, ok := r.factories[t.ID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownKind
	}

	p := f()
	if p == nil {
		return nil, ErrNilProcessor
	}
	return p, nil
}
