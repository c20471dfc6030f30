package audiograph

import (
	"runtime"
	"sync"
	"weak"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/handle"
)

type entry[T any] struct {
	ref weak.Pointer[T]
	// pin keeps a fresh object reachable until someone looks it up.
	pin *T
}

func (e *entry[T]) get() *T {
	if e.pin != nil {
		return e.pin
	}
	return e.ref.Value()
}

// registry maps the handles of one entity kind to their client objects. It is
// filled and emptied by runtime lifecycle events. Objects are held weakly when
// the leak sweep is on, so that dropped objects can be collected and destroyed.
type registry[T any] struct {
	sys     *System
	kind    backend.Kind
	proxyOf func(*T) *proxy

	mu      sync.RWMutex
	active  bool
	entries map[handle.Handle]*entry[T]
}

func newRegistry[T any, P interface {
	*T
	base() *proxy
}](sys *System, kind backend.Kind) *registry[T] {
	return &registry[T]{
		sys:     sys,
		kind:    kind,
		proxyOf: func(t *T) *proxy { return P(t).base() },
		entries: make(map[handle.Handle]*entry[T]),
	}
}

func (r *registry[T]) activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
}

// deactivate invalidates every registered object and stops accepting new ones.
func (r *registry[T]) deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = false
	for h, e := range r.entries {
		if obj := e.get(); obj != nil {
			r.proxyOf(obj).invalidate()
		}
		delete(r.entries, h)
	}
}

func (r *registry[T]) onCreate(h handle.Handle) {
	if h == handle.Nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		r.sys.log.Debugf("dropping created event for %s %s: registry inactive", r.kind, h)
		return
	}
	if _, ok := r.entries[h]; ok {
		r.sys.violation("%s %s created twice", r.kind, h)
		return
	}

	obj := new(T)
	r.proxyOf(obj).init(r.sys, r.kind, r, h)
	r.entries[h] = &entry[T]{ref: weak.Make(obj), pin: obj}
	if r.sys.leakSweep {
		runtime.AddCleanup(obj, r.collected, h)
	}
}

func (r *registry[T]) onDestroy(h handle.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return
	}
	delete(r.entries, h)
	if obj := e.get(); obj != nil {
		r.proxyOf(obj).invalidate()
	}
}

// lookup returns the object registered for h, or nil when h is Nil, unknown or
// its object was dropped by the client.
func (r *registry[T]) lookup(h handle.Handle) *T {
	if h == handle.Nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return nil
	}
	obj := e.get()
	if r.sys.leakSweep {
		e.pin = nil
	}
	return obj
}

func (r *registry[T]) lookupAll(hs []handle.Handle) []*T {
	objs := make([]*T, 0, len(hs))
	for _, h := range hs {
		if obj := r.lookup(h); obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs
}

func (r *registry[T]) remove(h handle.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, h)
}

// collected runs on the runtime's cleanup goroutine once the object registered
// for h is unreachable.
func (r *registry[T]) collected(h handle.Handle) {
	r.sys.sweep(r.reap, r.kind, h)
}

// reap forgets h if its object was collected, and reports whether it did.
func (r *registry[T]) reap(h handle.Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok || e.get() != nil {
		return false
	}
	delete(r.entries, h)
	return true
}

func (r *registry[T]) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
