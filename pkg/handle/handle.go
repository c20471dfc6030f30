// Package handle provides opaque identifiers for entities that live inside the
// audio runtime, and the slot arena the runtime uses to allocate them.
package handle

import (
	"errors"
	"fmt"
	"sync"
)

// Handle identifies one live runtime entity. The low 32 bits index a slot in the
// runtime's arena and the high 32 bits carry the slot's generation, so a handle
// whose slot has been recycled never compares equal to the new occupant's handle.
type Handle uint64

// Nil is the canonical "no object" handle.
const Nil Handle = 0

// ErrExhausted is returned by Arena.Alloc when every slot is in use.
var ErrExhausted = errors.New("handle: arena exhausted")

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index encoded in h.
func (h Handle) Index() uint32 {
	return uint32(h)
}

// Generation returns the slot generation encoded in h.
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

// IsNil reports whether h is the "no object" handle.
func (h Handle) IsNil() bool {
	return h == Nil
}

func (h Handle) String() string {
	if h == Nil {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d:%d)", h.Index(), h.Generation())
}

type slot struct {
	generation uint32
	live       bool
}

// Arena allocates handles from a pool of slots. Freed slots are reused with their
// generation bumped. Generations start at 1, which keeps every allocated handle
// distinct from Nil. Arena is safe for concurrent use.
type Arena struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
	limit int
	live  int
}

// NewArena creates an arena holding at most limit live handles. A limit of 0 or
// less means the arena is bounded only by the 32-bit index space.
func NewArena(limit int) *Arena {
	return &Arena{limit: limit}
}

// Alloc returns a fresh handle.
func (a *Arena) Alloc() (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limit > 0 && a.live >= a.limit {
		return Nil, ErrExhausted
	}

	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.live = true
		a.live++
		return newHandle(index, s.generation), nil
	}

	if uint64(len(a.slots)) >= 1<<32-1 {
		return Nil, ErrExhausted
	}

	index := uint32(len(a.slots))
	a.slots = append(a.slots, slot{generation: 1, live: true})
	a.live++
	return newHandle(index, 1), nil
}

// Free releases h. It reports false if h is not live, which covers Nil, stale
// generations and double frees.
func (a *Arena) Free(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.validLocked(h) {
		return false
	}

	s := &a.slots[h.Index()]
	s.live = false
	s.generation++
	if s.generation == 0 {
		// wrapped; generation 0 would let a handle alias Nil
		s.generation = 1
	}
	a.free = append(a.free, h.Index())
	a.live--
	return true
}

// Valid reports whether h refers to a live slot of the current generation.
func (a *Arena) Valid(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.validLocked(h)
}

func (a *Arena) validLocked(h Handle) bool {
	if h == Nil {
		return false
	}
	index := h.Index()
	if int(index) >= len(a.slots) {
		return false
	}
	s := a.slots[index]
	return s.live && s.generation == h.Generation()
}

// Len returns the number of live handles.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
