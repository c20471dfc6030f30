package audiograph

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/handle"
)

// proxy binds a client object to one runtime handle. It caches nothing but the
// handle, which is cleared when the object is destroyed.
type proxy struct {
	sys  *System
	kind backend.Kind
	h    atomic.Uint64
	reg  remover
}

type remover interface {
	remove(h handle.Handle)
}

func (p *proxy) init(sys *System, kind backend.Kind, reg remover, h handle.Handle) {
	p.sys, p.kind, p.reg = sys, kind, reg
	p.h.Store(uint64(h))
}

// Handle returns the runtime handle of the object, or handle.Nil once it has
// been destroyed.
func (p *proxy) Handle() handle.Handle {
	return handle.Handle(p.h.Load())
}

// Valid reports whether the object is still bound to a runtime entity.
func (p *proxy) Valid() bool {
	return p.Handle() != handle.Nil
}

func (p *proxy) invalidate() {
	p.h.Store(uint64(handle.Nil))
}

// Destroy destroys the runtime entity. Calling Destroy again, or on an object
// the runtime already destroyed, does nothing.
func (p *proxy) Destroy() {
	h := handle.Handle(p.h.Swap(uint64(handle.Nil)))
	if h == handle.Nil {
		return
	}
	p.reg.remove(h)
	if err := p.sys.backend.Destroy(p.kind, h); err != nil {
		p.sys.log.Errorf("destroying %s %s: %v", p.kind, h, err)
	}
}

// exec sends cmd to the object's entity. A full runtime queue drops the command
// with a warning; other failures are logged as errors.
func (p *proxy) exec(cmd backend.Command) error {
	h := p.Handle()
	if h == handle.Nil {
		return ErrInvalidObject
	}
	cmd.Target = h
	err := p.sys.backend.Exec(cmd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backend.ErrQueueFull):
		p.sys.log.Warnf("%s on %s %s dropped: %v", cmd.Op, p.kind, h, err)
	default:
		p.sys.log.Errorf("%s on %s %s: %v", cmd.Op, p.kind, h, err)
	}
	return fmt.Errorf("%s: %w", cmd.Op, err)
}

// set is exec for commands whose failure the caller cannot act on.
func (p *proxy) set(cmd backend.Command) {
	_ = p.exec(cmd)
}

// get reads one attribute. It returns the zero Reply when the object is invalid
// or the query fails.
func (p *proxy) get(op backend.Op, arg int) backend.Reply {
	h := p.Handle()
	if h == handle.Nil {
		return backend.Reply{}
	}
	r, err := p.sys.backend.Query(backend.Query{Op: op, Target: h, Int: arg})
	if err != nil {
		p.sys.log.Debugf("%s on %s %s: %v", op, p.kind, h, err)
		return backend.Reply{}
	}
	return r
}

func (p *proxy) getBool(op backend.Op) bool {
	return p.get(op, 0).Bool
}

func (p *proxy) getInt(op backend.Op) int {
	return p.get(op, 0).Int[0]
}

func (p *proxy) getFloat(op backend.Op) float32 {
	return p.get(op, 0).Float[0]
}

type handler interface {
	Handle() handle.Handle
}

// handleOf returns the handle of o, or handle.Nil when o is a nil pointer.
func handleOf[T any, P interface {
	*T
	handler
}](o P) handle.Handle {
	if o == nil {
		return handle.Nil
	}
	return o.Handle()
}
