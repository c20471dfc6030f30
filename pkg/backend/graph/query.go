package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/spatial"
)

// Query reads one attribute.
func (g *Graph) Query(q backend.Query) (backend.Reply, error) {
	if !q.Op.Valid() || !q.Op.IsQuery() {
		return backend.Reply{}, fmt.Errorf("%w: %s", backend.ErrUnknownOp, q.Op)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if q.Op.Global() {
		if g.state == backend.StateClosed {
			return backend.Reply{}, backend.ErrNotOpen
		}
		return g.queryGlobal(q), nil
	}
	if err := g.check(q.Op.Kind(), q.Target); err != nil {
		return backend.Reply{}, err
	}

	switch q.Op.Kind() {
	case backend.KindMixer:
		return g.queryMixer(g.mixers[q.Target], q), nil
	case backend.KindEffectBus:
		return g.queryBus(g.buses[q.Target], q), nil
	case backend.KindEffect:
		return g.queryEffect(g.effects[q.Target], q)
	case backend.KindSound:
		return g.querySound(g.sounds[q.Target], q), nil
	case backend.KindBank:
		return g.queryBank(g.banks[q.Target], q)
	}
	return backend.Reply{}, fmt.Errorf("%w: %s", backend.ErrUnknownOp, q.Op)
}

func putVec(dst []float32, v spatial.Vector3) {
	dst[0], dst[1], dst[2] = v.X, v.Y, v.Z
}

func (g *Graph) queryGlobal(q backend.Query) backend.Reply {
	var r backend.Reply
	switch q.Op {
	case backend.OpMasterMixer:
		r.Ref = g.master
	case backend.OpGlobalBus:
		r.Ref = g.global
	case backend.OpFindMixer:
		var found *mixer
		for _, m := range g.mixers {
			if m.name == q.Str && (found == nil || m.seq < found.seq) {
				found = m
			}
		}
		if found != nil {
			r.Ref = found.h
		}
	case backend.OpFindBank:
		var found *bankEntry
		for _, b := range g.banks {
			if b.loaded && b.name == q.Str && (found == nil || b.seq < found.seq) {
				found = b
			}
		}
		if found != nil {
			r.Ref = found.h
		}
	case backend.OpSuspended:
		r.Bool = g.state != backend.StateRunning
	case backend.OpRenderLoad:
		r.Float[0] = float32(g.meter.Load())
	case backend.OpClipFlag:
		r.Bool = g.clip
	case backend.OpVolumeRampTime:
		r.Float[0] = float32(g.rampTime.Seconds() * 1000)
	case backend.OpCapturing:
		r.Bool = g.capture != nil
		if r.Bool {
			r.Str = g.capture.Path()
		}
	case backend.OpListenerPosition:
		putVec(r.Float[0:3], g.listener.Position)
		putVec(r.Float[3:6], g.listener.LookAt)
		putVec(r.Float[6:9], g.listener.Up)
	case backend.OpListenerVelocity:
		putVec(r.Float[0:3], g.listener.Velocity)
	case backend.OpAttenuation:
		r.Int[0] = int(g.atten.Mode)
		r.Float[0], r.Float[1], r.Float[2] = g.atten.Near, g.atten.Far, g.atten.FarVolume
	case backend.OpSpeedOfSound:
		r.Float[0] = g.soundSpeed
	}
	return r
}

func (g *Graph) queryMixer(m *mixer, q backend.Query) backend.Reply {
	var r backend.Reply
	switch q.Op {
	case backend.OpMixerName:
		r.Str = m.name
	case backend.OpMixerVolume:
		r.Float[0] = m.volume
	case backend.OpMixerMixedVolume:
		r.Float[0] = g.mixedVolume(m.h)
	case backend.OpMixerPaused:
		r.Bool = m.paused
	case backend.OpMixerMixedPause:
		r.Bool = g.mixedPause(m.h)
	case backend.OpMixerParent:
		r.Ref = m.parent
	}
	return r
}

// sortedBuses returns buses in creation order.
func (g *Graph) sortedBuses() []*bus {
	buses := make([]*bus, 0, len(g.buses))
	for _, b := range g.buses {
		buses = append(buses, b)
	}
	slices.SortFunc(buses, func(a, b *bus) int { return cmp.Compare(a.seq, b.seq) })
	return buses
}

func (g *Graph) queryBus(b *bus, q backend.Query) backend.Reply {
	var r backend.Reply
	switch q.Op {
	case backend.OpBusEffects:
		r.Refs = slices.Clone(b.effects)
	case backend.OpBusOutput:
		r.Ref = b.output
	case backend.OpBusInputs:
		for _, in := range g.sortedBuses() {
			if in.output == b.h {
				r.Refs = append(r.Refs, in.h)
			}
		}
	case backend.OpBusBypassed:
		r.Bool = b.bypassed
	case backend.OpBusWetDry:
		r.Float[0] = b.wetDry
	}
	return r
}

func (g *Graph) queryEffect(e *effectNode, q backend.Query) (backend.Reply, error) {
	var r backend.Reply
	switch q.Op {
	case backend.OpEffectType:
		r.Int[0], r.Int[1] = int(e.typ.Kind), e.typ.ID
	case backend.OpEffectParam:
		v, err := e.proc.Param(q.Int)
		if err != nil {
			return backend.Reply{}, err
		}
		r.Float[0] = v
	case backend.OpEffectBypassed:
		r.Bool = e.bypassed
	case backend.OpEffectWetDry:
		r.Float[0] = e.wetDry
	case backend.OpEffectBus:
		r.Ref = e.bus
	}
	return r, nil
}

func (g *Graph) querySound(s *sound, q backend.Query) backend.Reply {
	var r backend.Reply
	switch q.Op {
	case backend.OpSoundReady:
		r.Bool = s.ready
	case backend.OpSoundFailed:
		r.Bool = s.failed
	case backend.OpSoundPlaying:
		r.Bool = s.playing
	case backend.OpSoundPaused:
		r.Bool = s.paused
	case backend.OpSoundMixedPause:
		r.Bool = s.paused || g.mixedPause(s.mixer)
	case backend.OpSoundLoop:
		r.Int[0], r.Int[1] = s.loopStart, s.loopEnd
		if s.loopEnd < 0 {
			r.Int[1] = s.length()
		}
	case backend.OpSoundLoopCount:
		r.Int[0] = s.loopCount
	case backend.OpSoundCurrentLoop:
		r.Int[0] = s.currentLoop
	case backend.OpSoundLoopReleased:
		r.Bool = s.released
	case backend.OpSoundPlayPosition:
		r.Int[0] = int(s.pos)
	case backend.OpSoundVolume:
		r.Float[0] = s.volume
	case backend.OpSoundMixedVolume:
		r.Float[0] = s.volume * g.mixedVolume(s.mixer)
	case backend.OpSoundPan:
		r.Float[0] = s.panValue()
	case backend.OpSoundPanMatrix:
		m := s.panMatrix()
		r.Float[0], r.Float[1], r.Float[2], r.Float[3] = m.LL, m.LR, m.RL, m.RR
	case backend.OpSoundSpeed:
		r.Float[0] = s.speed
	case backend.OpSoundNext:
		r.Ref = s.next
	case backend.OpSoundLength:
		r.Int[0] = s.length()
	case backend.OpSoundSampleRate:
		r.Int[0] = s.sampleRate
	case backend.OpSoundChannels:
		r.Int[0] = s.channels
	case backend.OpSoundMixer:
		r.Ref = s.mixer
	case backend.OpSoundEffectBus:
		r.Ref = s.bus
	case backend.OpSound3dEnabled:
		r.Bool = s.threeD
	case backend.OpSoundVirtual:
		r.Bool = s.threeD && g.place(s).Virtual
	case backend.OpSound3dPosition:
		putVec(r.Float[0:3], s.emitter.Position)
	case backend.OpSound3dVelocity:
		putVec(r.Float[0:3], s.emitter.Velocity)
	}
	return r
}

func (g *Graph) place(s *sound) spatial.Result {
	return spatial.Compute(s.emitter, g.listener, g.atten, g.soundSpeed)
}

func (g *Graph) queryBank(b *bankEntry, q backend.Query) (backend.Reply, error) {
	var r backend.Reply
	switch q.Op {
	case backend.OpBankLoaded:
		r.Bool = b.loaded
	case backend.OpBankFailed:
		r.Bool = b.failed
	case backend.OpBankName:
		r.Str = b.name
	case backend.OpBankSoundCount:
		r.Int[0] = len(b.sounds)
	case backend.OpBankSoundName:
		if q.Int < 0 || q.Int >= len(b.names) {
			return backend.Reply{}, fmt.Errorf("%w: sound index %d", backend.ErrOutOfRange, q.Int)
		}
		r.Str = b.names[q.Int]
	}
	return r, nil
}
