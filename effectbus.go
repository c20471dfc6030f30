package audiograph

import (
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/handle"
)

// EffectBus runs the sounds routed to it through an ordered chain of effects and
// feeds the result to another bus or to the final output.
type EffectBus struct {
	proxy
}

func (b *EffectBus) base() *proxy { return &b.proxy }

// AddEffect appends e to the chain. An effect on another bus is moved here.
func (b *EffectBus) AddEffect(e *Effect) {
	if handleOf(e) == handle.Nil {
		return
	}
	b.set(backend.Command{Op: backend.OpBusAddEffect, Ref: e.Handle()})
}

// RemoveEffect removes e from the chain if it is on it.
func (b *EffectBus) RemoveEffect(e *Effect) {
	if handleOf(e) == handle.Nil {
		return
	}
	b.set(backend.Command{Op: backend.OpBusRemoveEffect, Ref: e.Handle()})
}

func (b *EffectBus) RemoveAllEffects() {
	b.set(backend.Command{Op: backend.OpBusRemoveAllEffects})
}

// Effects returns the chain in processing order.
func (b *EffectBus) Effects() []*Effect {
	return b.sys.effects.lookupAll(b.get(backend.OpBusEffects, 0).Refs)
}

// SetOutputBus routes b into out, or into the final output when out is nil.
// The runtime rejects routes that would loop back to b with backend.ErrCycle,
// and any route for the global bus with backend.ErrGlobalBus.
func (b *EffectBus) SetOutputBus(out *EffectBus) error {
	if out != nil && !out.Valid() {
		return ErrInvalidObject
	}
	return b.exec(backend.Command{Op: backend.OpBusSetOutput, Ref: handleOf(out)})
}

// OutputBus returns the bus b feeds, or nil when it feeds the final output.
func (b *EffectBus) OutputBus() *EffectBus {
	return b.sys.buses.lookup(b.get(backend.OpBusOutput, 0).Ref)
}

// InputBuses returns the buses routed into b.
func (b *EffectBus) InputBuses() []*EffectBus {
	return b.sys.buses.lookupAll(b.get(backend.OpBusInputs, 0).Refs)
}

// Reset clears the processing state of every effect on the bus.
func (b *EffectBus) Reset() {
	b.set(backend.Command{Op: backend.OpBusReset})
}

func (b *EffectBus) IsBypassed() bool {
	return b.getBool(backend.OpBusBypassed)
}

// SetBypassed makes the bus pass its input through unprocessed.
func (b *EffectBus) SetBypassed(bypassed bool) {
	b.set(backend.Command{Op: backend.OpBusSetBypassed, Bool: bypassed})
}

func (b *EffectBus) WetDryRatio() float32 {
	return b.getFloat(backend.OpBusWetDry)
}

// SetWetDryRatio blends processed and unprocessed signal: 0 is fully dry and 1
// fully wet. Values are clamped to [0, 1].
func (b *EffectBus) SetWetDryRatio(ratio float32) {
	b.set(backend.Command{Op: backend.OpBusSetWetDry, Float: [9]float32{ratio}})
}

// Destroy destroys the bus. Its effects are detached but not destroyed, its
// sounds lose their bus and buses routed into it go to the final output. The
// global bus cannot be destroyed.
func (b *EffectBus) Destroy() {
	if b == b.sys.global {
		b.sys.log.Errorf("the global effect bus cannot be destroyed")
		return
	}
	b.proxy.Destroy()
}
