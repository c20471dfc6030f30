package audiograph

import (
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/effect"
)

// Effect is one processing stage of an effect bus. Parameters are addressed by
// the IDs of its kind, such as effect.BitCrusherBitResolution; custom kinds
// receive the (id, value) pairs as they are.
type Effect struct {
	proxy
}

func (e *Effect) base() *proxy { return &e.proxy }

func (e *Effect) Type() effect.Type {
	r := e.get(backend.OpEffectType, 0)
	return effect.Type{Kind: effect.Kind(r.Int[0]), ID: r.Int[1]}
}

// SetParam sets parameter id. Built-in kinds clamp value to the parameter's
// range and reject unknown IDs with effect.ErrUnknownParam.
func (e *Effect) SetParam(id int, value float32) error {
	return e.exec(backend.Command{Op: backend.OpEffectSetParam, Int: [2]int{id}, Float: [9]float32{value}})
}

func (e *Effect) Param(id int) float32 {
	return e.get(backend.OpEffectParam, id).Float[0]
}

// Reset clears the effect's processing state, keeping its parameters.
func (e *Effect) Reset() {
	e.set(backend.Command{Op: backend.OpEffectReset})
}

func (e *Effect) IsBypassed() bool {
	return e.getBool(backend.OpEffectBypassed)
}

// SetBypassed makes the effect pass its input through. Changing it resets the
// processing state.
func (e *Effect) SetBypassed(bypassed bool) {
	e.set(backend.Command{Op: backend.OpEffectSetBypassed, Bool: bypassed})
}

func (e *Effect) WetDryRatio() float32 {
	return e.getFloat(backend.OpEffectWetDry)
}

// SetWetDryRatio blends processed and unprocessed signal: 0 is fully dry and 1
// fully wet. Values are clamped to [0, 1].
func (e *Effect) SetWetDryRatio(ratio float32) {
	e.set(backend.Command{Op: backend.OpEffectSetWetDry, Float: [9]float32{ratio}})
}

// Bus returns the bus the effect is on, or nil.
func (e *Effect) Bus() *EffectBus {
	return e.sys.buses.lookup(e.get(backend.OpEffectBus, 0).Ref)
}
