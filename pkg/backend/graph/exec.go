package graph

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/capture"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/pan"
	"github.com/pion/audiograph/pkg/spatial"
)

// Exec applies cmd.
func (g *Graph) Exec(cmd backend.Command) error {
	if !cmd.Op.Valid() || cmd.Op.IsQuery() {
		return fmt.Errorf("%w: %s", backend.ErrUnknownOp, cmd.Op)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if cmd.Op.Global() {
		if g.state == backend.StateClosed {
			return backend.ErrNotOpen
		}
		return g.execGlobal(cmd)
	}
	if err := g.check(cmd.Op.Kind(), cmd.Target); err != nil {
		return err
	}

	switch cmd.Op.Kind() {
	case backend.KindMixer:
		return g.execMixer(g.mixers[cmd.Target], cmd)
	case backend.KindEffectBus:
		return g.execBus(g.buses[cmd.Target], cmd)
	case backend.KindEffect:
		return g.execEffect(g.effects[cmd.Target], cmd)
	case backend.KindSound:
		return g.execSound(g.sounds[cmd.Target], cmd)
	}
	return fmt.Errorf("%w: %s", backend.ErrUnknownOp, cmd.Op)
}

func vec(f []float32) spatial.Vector3 {
	return spatial.Vector3{X: f[0], Y: f[1], Z: f[2]}
}

func clamp01(v float32) float32 {
	return float32(math.Max(0, math.Min(1, float64(v))))
}

func (g *Graph) execGlobal(cmd backend.Command) error {
	switch cmd.Op {
	case backend.OpSuspend:
		if g.state == backend.StateOpened {
			return nil
		}
		return g.state.Update(backend.StateOpened, func() error {
			g.log.Debug("suspended")
			return nil
		})
	case backend.OpResume:
		if g.state == backend.StateRunning {
			return nil
		}
		return g.state.Update(backend.StateRunning, func() error {
			g.log.Debug("resumed")
			return nil
		})
	case backend.OpResetClipFlag:
		g.clip = false
	case backend.OpSetVolumeRampTime:
		ms := max(cmd.Float[0], 0)
		g.rampTime = time.Duration(float64(ms) * float64(time.Millisecond))
	case backend.OpLock:
		g.locks++
	case backend.OpUnlock:
		if g.locks == 0 {
			g.log.Warn("unlock without a matching lock")
			return nil
		}
		g.locks--
	case backend.OpStartCapture:
		return g.startCapture(cmd.Str)
	case backend.OpStopCapture:
		return g.stopCapture()
	case backend.OpSetListenerPosition:
		if !g.listener.SetOrientation(vec(cmd.Float[0:3]), vec(cmd.Float[3:6]), vec(cmd.Float[6:9])) {
			g.log.Error("listener up vector is too small; ignoring it")
		}
	case backend.OpSetListenerVelocity:
		g.listener.Velocity = vec(cmd.Float[0:3])
	case backend.OpSetAttenuation:
		g.atten = spatial.NewAttenuation(spatial.Mode(cmd.Int[0]), cmd.Float[0], cmd.Float[1], cmd.Float[2])
	case backend.OpSetSpeedOfSound:
		g.soundSpeed = cmd.Float[0]
	}
	return nil
}

func (g *Graph) startCapture(path string) error {
	if g.capture != nil {
		if err := g.stopCapture(); err != nil {
			g.log.Warnf("finishing previous capture: %v", err)
		}
	}
	if path == "" {
		path = filepath.Join(os.TempDir(), "capture-"+uuid.NewString()+".wav")
	}
	w, err := capture.Create(path, g.cfg.SampleRate, g.cfg.Channels)
	if err != nil {
		g.log.Errorf("cannot capture to %s: %v", path, err)
		return err
	}
	g.capture = w
	return nil
}

func (g *Graph) stopCapture() error {
	if g.capture == nil {
		return nil
	}
	err := g.capture.Close()
	g.capture = nil
	return err
}

func (g *Graph) execMixer(m *mixer, cmd backend.Command) error {
	switch cmd.Op {
	case backend.OpMixerSetName:
		m.name = truncateName(cmd.Str)
	case backend.OpMixerSetVolume:
		m.volume = cmd.Float[0]
	case backend.OpMixerSetPaused:
		m.paused = cmd.Bool
	case backend.OpMixerSetParent:
		return g.setParent(m, cmd.Ref)
	}
	return nil
}

func (g *Graph) setParent(m *mixer, parent handle.Handle) error {
	if m.h == g.master {
		g.log.Error("the master mixer cannot have a parent")
		return backend.ErrMasterMixer
	}
	if parent == handle.Nil {
		parent = g.master
	}
	if err := g.check(backend.KindMixer, parent); err != nil {
		return err
	}
	for p := parent; p != handle.Nil; p = g.mixers[p].parent {
		if p == m.h {
			g.log.Errorf("rejecting %s as parent of %s: cycle", parent, m.h)
			return fmt.Errorf("%w: mixer %s under %s", backend.ErrCycle, m.h, parent)
		}
	}
	m.parent = parent
	return nil
}

func (g *Graph) mixedVolume(h handle.Handle) float32 {
	v := float32(1)
	for p := h; p != handle.Nil; p = g.mixers[p].parent {
		v *= g.mixers[p].volume
	}
	return v
}

func (g *Graph) mixedPause(h handle.Handle) bool {
	for p := h; p != handle.Nil; p = g.mixers[p].parent {
		if g.mixers[p].paused {
			return true
		}
	}
	return false
}

func (g *Graph) execBus(b *bus, cmd backend.Command) error {
	switch cmd.Op {
	case backend.OpBusAddEffect:
		if err := g.check(backend.KindEffect, cmd.Ref); err != nil {
			return err
		}
		e := g.effects[cmd.Ref]
		if e.bus != handle.Nil {
			g.detachEffect(e)
		}
		b.effects = append(b.effects, e.h)
		e.bus = b.h
	case backend.OpBusRemoveEffect:
		if err := g.check(backend.KindEffect, cmd.Ref); err != nil {
			return err
		}
		if e := g.effects[cmd.Ref]; e.bus == b.h {
			g.detachEffect(e)
		}
	case backend.OpBusRemoveAllEffects:
		for _, h := range b.effects {
			g.effects[h].bus = handle.Nil
		}
		b.effects = nil
	case backend.OpBusSetOutput:
		return g.setOutput(b, cmd.Ref)
	case backend.OpBusReset:
		procs := make([]func(), 0, len(b.effects))
		for _, h := range b.effects {
			procs = append(procs, g.effects[h].proc.Reset)
		}
		return g.enqueue(func() {
			for _, reset := range procs {
				reset()
			}
		})
	case backend.OpBusSetBypassed:
		b.bypassed = cmd.Bool
	case backend.OpBusSetWetDry:
		b.wetDry = clamp01(cmd.Float[0])
	}
	return nil
}

func (g *Graph) setOutput(b *bus, out handle.Handle) error {
	if out == handle.Nil {
		b.output = handle.Nil
		return nil
	}
	if b.global {
		g.log.Error("the global effect bus cannot be routed to another bus")
		return backend.ErrGlobalBus
	}
	if err := g.check(backend.KindEffectBus, out); err != nil {
		return err
	}
	for p := out; p != handle.Nil; p = g.buses[p].output {
		if p == b.h {
			g.log.Errorf("rejecting %s as output of %s: cycle", out, b.h)
			return fmt.Errorf("%w: bus %s into %s", backend.ErrCycle, b.h, out)
		}
	}
	b.output = out
	return nil
}

func (g *Graph) execEffect(e *effectNode, cmd backend.Command) error {
	switch cmd.Op {
	case backend.OpEffectSetParam:
		return e.proc.SetParam(cmd.Int[0], cmd.Float[0])
	case backend.OpEffectReset:
		return g.enqueue(e.proc.Reset)
	case backend.OpEffectSetBypassed:
		if e.bypassed == cmd.Bool {
			return nil
		}
		e.bypassed = cmd.Bool
		return g.enqueue(e.proc.Reset)
	case backend.OpEffectSetWetDry:
		e.wetDry = clamp01(cmd.Float[0])
	}
	return nil
}

func (g *Graph) execSound(s *sound, cmd backend.Command) error {
	switch cmd.Op {
	case backend.OpSoundPlay:
		return g.play(s)
	case backend.OpSoundStop:
		if err := g.enqueue(func() { s.active, s.pos = false, 0 }); err != nil {
			return err
		}
		s.playing, s.playWhenReady = false, false
	case backend.OpSoundSetPaused:
		s.paused = cmd.Bool
	case backend.OpSoundSetLoop:
		start, end := max(cmd.Int[0], 0), cmd.Int[1]
		if end >= 0 && start >= end {
			g.log.Errorf("loop start %d must be less than loop end %d", start, end)
			return fmt.Errorf("%w: loop [%d, %d)", backend.ErrOutOfRange, start, end)
		}
		if end < 0 {
			end = -1
		}
		s.loopStart, s.loopEnd = start, end
	case backend.OpSoundSetLoopCount:
		s.loopCount = max(cmd.Int[0], -1)
	case backend.OpSoundReleaseLoop:
		s.released = true
	case backend.OpSoundSetPlayPosition:
		frame := max(cmd.Int[0], 0)
		return g.enqueue(func() {
			if s.ready {
				frame = min(frame, s.frames)
			}
			s.pos = float64(frame)
		})
	case backend.OpSoundSetVolume:
		s.volume = cmd.Float[0]
	case backend.OpSoundSetPan:
		s.pan = float32(math.Max(-1, math.Min(1, float64(cmd.Float[0]))))
		s.explicitPan = false
	case backend.OpSoundSetPanMatrix:
		s.matrix = pan.Matrix{LL: cmd.Float[0], LR: cmd.Float[1], RL: cmd.Float[2], RR: cmd.Float[3]}
		s.explicitPan = true
	case backend.OpSoundSetSpeed:
		speed := float64(cmd.Float[0])
		if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < 0 {
			return fmt.Errorf("speed %v: %w", cmd.Float[0], backend.ErrOutOfRange)
		}
		s.speed = cmd.Float[0]
	case backend.OpSoundSetNext:
		if cmd.Ref != handle.Nil {
			if err := g.check(backend.KindSound, cmd.Ref); err != nil {
				return err
			}
		}
		s.next = cmd.Ref
	case backend.OpSoundSetMixer:
		m := cmd.Ref
		if m == handle.Nil {
			m = g.master
		}
		if err := g.check(backend.KindMixer, m); err != nil {
			return err
		}
		s.mixer = m
	case backend.OpSoundSetEffectBus:
		if cmd.Ref != handle.Nil {
			if err := g.check(backend.KindEffectBus, cmd.Ref); err != nil {
				return err
			}
		}
		s.bus = cmd.Ref
	case backend.OpSoundSet3dEnabled:
		s.threeD = cmd.Bool
	case backend.OpSoundSet3dPosition:
		s.emitter.Position = vec(cmd.Float[0:3])
	case backend.OpSoundSet3dVelocity:
		s.emitter.Velocity = vec(cmd.Float[0:3])
	}
	return nil
}

func (g *Graph) play(s *sound) error {
	if s.failed {
		g.log.Errorf("cannot play sound %s: it failed to load", s.h)
		return nil
	}
	if !s.ready {
		g.log.Infof("sound %s is not ready; playing once it is", s.h)
		s.playWhenReady = true
		return nil
	}
	if err := g.enqueue(func() { g.start(s) }); err != nil {
		return err
	}
	s.playing, s.playWhenReady, s.released = true, false, false
	s.currentLoop = 0
	return nil
}

// start begins playback of s from its first frame. It runs on the processing
// cycle with g.mu held.
func (g *Graph) start(s *sound) {
	if !s.playing {
		// stopped again before the task ran
		return
	}
	if s.active {
		s.pos = 0
	}
	s.active = true
	s.currentLoop = 0
}
