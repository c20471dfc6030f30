// Package backend defines the boundary between the control-plane object model and
// the audio runtime that owns entity state and renders on its own schedule.
//
// Traffic across the boundary is one-way in each direction: the client submits
// creation, destruction, mutation and query requests addressed by handle, and the
// runtime pushes created/destroyed lifecycle events back through an EventHandler.
package backend

import (
	"fmt"

	"github.com/pion/audiograph/pkg/effect"
	"github.com/pion/audiograph/pkg/handle"
)

// Kind tags the entity kind a handle denotes.
type Kind uint8

const (
	KindMixer Kind = iota + 1
	KindEffectBus
	KindEffect
	KindSound
	KindBank
)

// Kinds lists every entity kind in a stable order.
var Kinds = []Kind{KindMixer, KindEffectBus, KindEffect, KindSound, KindBank}

func (k Kind) String() string {
	switch k {
	case KindMixer:
		return "mixer"
	case KindEffectBus:
		return "effect-bus"
	case KindEffect:
		return "effect"
	case KindSound:
		return "sound"
	case KindBank:
		return "bank"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// EventType says what happened to an entity.
type EventType uint8

const (
	EventCreated EventType = iota + 1
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// Event is a lifecycle notification pushed from the runtime to the client.
type Event struct {
	Type   EventType
	Kind   Kind
	Handle handle.Handle
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s %s", e.Kind, e.Type, e.Handle)
}

// EventHandler receives lifecycle events. The runtime may call it from any
// goroutine, including the one that issued the triggering request.
type EventHandler func(Event)

// Request asks the runtime to create one entity.
type Request struct {
	Kind Kind
	// Name is the mixer name, bank path, bank sound name or stream path.
	Name string
	// Parent is the parent mixer of a new mixer, or the bank of a bank sound.
	Parent handle.Handle
	// Index selects a bank sound by position; it is ignored when Name is set.
	Index int
	// Offset and Length select a byte range of a bank or stream file; Length 0
	// means to the end.
	Offset int64
	Length int64
	// Ext names the stream format when the path's own extension does not.
	Ext string
	// Async loads a bank without blocking; poll OpBankLoaded / OpBankFailed.
	Async bool
	// Effect is the effect type to create.
	Effect effect.Type
}

// Command mutates an entity, or a global setting when Target is handle.Nil.
// Which fields are read depends on Op.
type Command struct {
	Op     Op
	Target handle.Handle
	Ref    handle.Handle
	Int    [2]int
	Float  [9]float32
	Bool   bool
	Str    string
}

// Query reads an entity attribute, or a global setting when Target is handle.Nil.
type Query struct {
	Op     Op
	Target handle.Handle
	Int    int
	Str    string
}

// Reply carries the result of a Query. Which fields are set depends on Op.
type Reply struct {
	Bool  bool
	Int   [2]int
	Float [9]float32
	Ref   handle.Handle
	Refs  []handle.Handle
	Str   string
}

// Backend is an audio runtime as seen from the control plane.
//
// Create returns handle.Nil when the runtime could not allocate the entity; the
// created event, if any, is delivered before Create returns. Destroy, Exec and
// Query on a handle that is not live return ErrInvalidHandle. Exec never blocks on
// the processing cycle; when the runtime's command queue is full it drops the
// command and returns ErrQueueFull.
//
// The runtime is responsible for keeping the mixer tree and effect-bus routing
// acyclic: OpMixerSetParent and OpBusSetOutput return ErrCycle instead of applying
// an edit that would close a loop.
type Backend interface {
	Open(h EventHandler) error
	Close() error
	Create(req Request) (handle.Handle, error)
	Destroy(kind Kind, h handle.Handle) error
	Exec(cmd Command) error
	Query(q Query) (Reply, error)
}
