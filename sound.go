package audiograph

import (
	"math"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/pan"
	"github.com/pion/audiograph/pkg/spatial"
)

// Sound is one playable instance of a bank entry or a stream.
//
// Sounds start stopped. Play starts them from the beginning; once playback
// passes the end of the last loop the sound stops, or hands over to its next
// sound with no gap. Pause is a separate flag, and a sound in a paused mixer is
// paused as well.
type Sound struct {
	proxy
}

func (s *Sound) base() *proxy { return &s.proxy }

// IsReady reports whether the sound can play. Bank sounds are ready at once,
// streams once the runtime has opened them.
func (s *Sound) IsReady() bool {
	return s.getBool(backend.OpSoundReady)
}

// IsFailed reports whether the stream could not be opened, or the sound's bank
// was destroyed.
func (s *Sound) IsFailed() bool {
	return s.getBool(backend.OpSoundFailed)
}

// Play starts the sound from the beginning and clears a released loop. A stream
// that is not ready yet starts once it is. Failed sounds do not play.
func (s *Sound) Play() {
	s.set(backend.Command{Op: backend.OpSoundPlay})
}

func (s *Sound) Stop() {
	s.set(backend.Command{Op: backend.OpSoundStop})
}

func (s *Sound) IsPlaying() bool {
	return s.getBool(backend.OpSoundPlaying)
}

func (s *Sound) SetPaused(paused bool) {
	s.set(backend.Command{Op: backend.OpSoundSetPaused, Bool: paused})
}

func (s *Sound) IsPaused() bool {
	return s.getBool(backend.OpSoundPaused)
}

// MixedPauseState reports whether the sound, its mixer or any ancestor mixer is
// paused.
func (s *Sound) MixedPauseState() bool {
	return s.getBool(backend.OpSoundMixedPause)
}

// SetLoop sets the loop window to frames [start, end). An end of -1 loops to the
// end of the sound. start must be less than end.
func (s *Sound) SetLoop(start, end int) error {
	return s.exec(backend.Command{Op: backend.OpSoundSetLoop, Int: [2]int{start, end}})
}

// Loop returns the loop window. A window that runs to the end reports the sound
// length as its end, or -1 while the length is unknown.
func (s *Sound) Loop() (start, end int) {
	r := s.get(backend.OpSoundLoop, 0)
	return r.Int[0], r.Int[1]
}

// SetLoopCount sets how many extra times the loop window plays: 0 plays the
// sound once and -1 loops until ReleaseLoop or Stop.
func (s *Sound) SetLoopCount(count int) {
	s.set(backend.Command{Op: backend.OpSoundSetLoopCount, Int: [2]int{count}})
}

func (s *Sound) LoopCount() int {
	return s.getInt(backend.OpSoundLoopCount)
}

// CurrentLoop returns how many times playback has wrapped since Play.
func (s *Sound) CurrentLoop() int {
	return s.getInt(backend.OpSoundCurrentLoop)
}

// ReleaseLoop makes the current pass through the loop window the last one.
func (s *Sound) ReleaseLoop() {
	s.set(backend.Command{Op: backend.OpSoundReleaseLoop})
}

// IsLoopReleased reports whether ReleaseLoop was called since the last Play.
func (s *Sound) IsLoopReleased() bool {
	return s.getBool(backend.OpSoundLoopReleased)
}

// SetPlayPosition moves playback to frame.
func (s *Sound) SetPlayPosition(frame int) {
	s.set(backend.Command{Op: backend.OpSoundSetPlayPosition, Int: [2]int{frame}})
}

func (s *Sound) PlayPosition() int {
	return s.getInt(backend.OpSoundPlayPosition)
}

// SetPlayPositionMs moves playback to ms milliseconds. It does nothing while the
// sample rate is unknown.
func (s *Sound) SetPlayPositionMs(ms float32) {
	rate := s.SampleRate()
	if rate <= 0 {
		return
	}
	s.SetPlayPosition(int(float64(ms) * float64(rate) / 1000))
}

func (s *Sound) PlayPositionMs() float32 {
	return s.framesToMs(s.PlayPosition())
}

func (s *Sound) SetVolume(v float32) {
	s.set(backend.Command{Op: backend.OpSoundSetVolume, Float: [9]float32{v}})
}

func (s *Sound) Volume() float32 {
	return s.getFloat(backend.OpSoundVolume)
}

// MixedVolume returns the sound volume times the mixed volume of its mixer.
func (s *Sound) MixedVolume() float32 {
	return s.getFloat(backend.OpSoundMixedVolume)
}

// SetPan pans the sound from -1 (left) to 1 (right), replacing any pan matrix.
func (s *Sound) SetPan(p float32) {
	s.set(backend.Command{Op: backend.OpSoundSetPan, Float: [9]float32{p}})
}

func (s *Sound) Pan() float32 {
	return s.getFloat(backend.OpSoundPan)
}

// SetPanMatrix sets the full volume matrix. PanMatrix returns it unchanged until
// the next SetPan.
func (s *Sound) SetPanMatrix(m pan.Matrix) {
	s.set(backend.Command{Op: backend.OpSoundSetPanMatrix, Float: [9]float32{m.LL, m.LR, m.RL, m.RR}})
}

func (s *Sound) PanMatrix() pan.Matrix {
	f := s.get(backend.OpSoundPanMatrix, 0).Float
	return pan.Matrix{LL: f[0], LR: f[1], RL: f[2], RR: f[3]}
}

// SetSpeed sets the playback speed factor; 2 plays an octave up. Negative or
// non-finite speeds are rejected and leave the speed unchanged.
func (s *Sound) SetSpeed(speed float32) {
	s.set(backend.Command{Op: backend.OpSoundSetSpeed, Float: [9]float32{speed}})
}

func (s *Sound) Speed() float32 {
	return s.getFloat(backend.OpSoundSpeed)
}

// SetPitchShift sets the speed from a shift in half steps.
func (s *Sound) SetPitchShift(halfSteps float32) {
	s.SetSpeed(float32(math.Exp2(float64(halfSteps) / 12)))
}

func (s *Sound) PitchShift() float32 {
	speed := s.Speed()
	if speed <= 0 {
		return 0
	}
	return float32(12 * math.Log2(float64(speed)))
}

// SetNextSound chains next to start when s finishes. nil clears the chain.
func (s *Sound) SetNextSound(next *Sound) {
	if next != nil && !next.Valid() {
		return
	}
	s.set(backend.Command{Op: backend.OpSoundSetNext, Ref: handleOf(next)})
}

func (s *Sound) NextSound() *Sound {
	return s.sys.sounds.lookup(s.get(backend.OpSoundNext, 0).Ref)
}

// Length returns the length in frames, or -1 while it is unknown.
func (s *Sound) Length() int {
	return s.getInt(backend.OpSoundLength)
}

// LengthMs returns the length in milliseconds, or -1 while it is unknown.
func (s *Sound) LengthMs() float32 {
	n := s.Length()
	if n < 0 {
		return -1
	}
	return s.framesToMs(n)
}

func (s *Sound) SampleRate() int {
	return s.getInt(backend.OpSoundSampleRate)
}

func (s *Sound) Channels() int {
	return s.getInt(backend.OpSoundChannels)
}

func (s *Sound) framesToMs(frames int) float32 {
	rate := s.SampleRate()
	if rate <= 0 {
		return 0
	}
	return float32(float64(frames) * 1000 / float64(rate))
}

// SetMixer moves the sound to m, or to the master mixer when m is nil.
func (s *Sound) SetMixer(m *Mixer) {
	if m != nil && !m.Valid() {
		return
	}
	s.set(backend.Command{Op: backend.OpSoundSetMixer, Ref: handleOf(m)})
}

func (s *Sound) Mixer() *Mixer {
	return s.sys.mixers.lookup(s.get(backend.OpSoundMixer, 0).Ref)
}

// SetEffectBus routes the sound through b. nil routes it straight to the output.
func (s *Sound) SetEffectBus(b *EffectBus) {
	if b != nil && !b.Valid() {
		return
	}
	s.set(backend.Command{Op: backend.OpSoundSetEffectBus, Ref: handleOf(b)})
}

func (s *Sound) EffectBus() *EffectBus {
	return s.sys.buses.lookup(s.get(backend.OpSoundEffectBus, 0).Ref)
}

// Set3dEnabled makes the sound's pan, volume and speed follow its position and
// velocity relative to the listener.
func (s *Sound) Set3dEnabled(enabled bool) {
	s.set(backend.Command{Op: backend.OpSoundSet3dEnabled, Bool: enabled})
}

func (s *Sound) Is3dEnabled() bool {
	return s.getBool(backend.OpSound3dEnabled)
}

// IsVirtual reports whether the sound is 3D and attenuated below audibility. A
// virtual sound keeps advancing but is not rendered.
func (s *Sound) IsVirtual() bool {
	return s.getBool(backend.OpSoundVirtual)
}

func (s *Sound) Set3dPosition(p spatial.Vector3) {
	cmd := backend.Command{Op: backend.OpSoundSet3dPosition}
	putVector(cmd.Float[0:3], p)
	s.set(cmd)
}

func (s *Sound) Position3d() spatial.Vector3 {
	r := s.get(backend.OpSound3dPosition, 0)
	return vector(r.Float[0:3])
}

func (s *Sound) Set3dVelocity(v spatial.Vector3) {
	cmd := backend.Command{Op: backend.OpSoundSet3dVelocity}
	putVector(cmd.Float[0:3], v)
	s.set(cmd)
}

func (s *Sound) Velocity3d() spatial.Vector3 {
	r := s.get(backend.OpSound3dVelocity, 0)
	return vector(r.Float[0:3])
}
