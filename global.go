package audiograph

import (
	"errors"
	"fmt"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/spatial"
)

func (s *System) exec(cmd backend.Command) error {
	err := s.backend.Exec(cmd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backend.ErrQueueFull):
		s.log.Warnf("%s dropped: %v", cmd.Op, err)
	default:
		s.log.Errorf("%s: %v", cmd.Op, err)
	}
	return fmt.Errorf("%s: %w", cmd.Op, err)
}

func (s *System) query(q backend.Query) backend.Reply {
	r, err := s.backend.Query(q)
	if err != nil {
		s.log.Debugf("%s: %v", q.Op, err)
		return backend.Reply{}
	}
	return r
}

func (s *System) globalRef(op backend.Op) handle.Handle {
	return s.query(backend.Query{Op: op}).Ref
}

// Master returns the master mixer.
func (s *System) Master() *Mixer {
	return s.master
}

// GlobalEffectBus returns the bus every other bus may route into. It cannot be
// destroyed or routed elsewhere.
func (s *System) GlobalEffectBus() *EffectBus {
	return s.global
}

// FindMixer returns the first mixer named name in creation order, or nil.
func (s *System) FindMixer(name string) *Mixer {
	return s.mixers.lookup(s.query(backend.Query{Op: backend.OpFindMixer, Str: name}).Ref)
}

// FindBank returns the first loaded bank named name in creation order, or nil.
func (s *System) FindBank(name string) *Bank {
	return s.banks.lookup(s.query(backend.Query{Op: backend.OpFindBank, Str: name}).Ref)
}

// Suspend stops the processing cycle, for example while the application is in
// the background.
func (s *System) Suspend() {
	_ = s.exec(backend.Command{Op: backend.OpSuspend})
}

// Resume restarts a suspended processing cycle.
func (s *System) Resume() {
	_ = s.exec(backend.Command{Op: backend.OpResume})
}

func (s *System) IsSuspended() bool {
	return s.query(backend.Query{Op: backend.OpSuspended}).Bool
}

// RenderLoad returns the smoothed fraction of each cycle's time budget spent
// rendering.
func (s *System) RenderLoad() float32 {
	return s.query(backend.Query{Op: backend.OpRenderLoad}).Float[0]
}

// ClipFlag reports whether the output has clipped since the flag was last reset.
func (s *System) ClipFlag() bool {
	return s.query(backend.Query{Op: backend.OpClipFlag}).Bool
}

func (s *System) ResetClipFlag() {
	_ = s.exec(backend.Command{Op: backend.OpResetClipFlag})
}

// SetVolumeRampTime sets the time volume changes are smoothed over, in
// milliseconds.
func (s *System) SetVolumeRampTime(ms float32) {
	_ = s.exec(backend.Command{Op: backend.OpSetVolumeRampTime, Float: [9]float32{ms}})
}

func (s *System) VolumeRampTime() float32 {
	return s.query(backend.Query{Op: backend.OpVolumeRampTime}).Float[0]
}

// Lock stops the runtime from applying queued commands until the matching
// Unlock, so that the commands issued in between take effect in the same cycle.
// Prefer WithLock.
func (s *System) Lock() {
	_ = s.exec(backend.Command{Op: backend.OpLock})
}

func (s *System) Unlock() {
	_ = s.exec(backend.Command{Op: backend.OpUnlock})
}

// WithLock runs fn between Lock and Unlock. Unlock runs even if fn panics.
func (s *System) WithLock(fn func()) {
	s.Lock()
	defer s.Unlock()
	fn()
}

// StartCapture writes the rendered output to a WAV file at path. An empty path
// picks a file in the temporary directory.
func (s *System) StartCapture(path string) error {
	return s.exec(backend.Command{Op: backend.OpStartCapture, Str: path})
}

func (s *System) StopCapture() {
	_ = s.exec(backend.Command{Op: backend.OpStopCapture})
}

// Capturing returns the capture file path and whether a capture is running.
func (s *System) Capturing() (string, bool) {
	r := s.query(backend.Query{Op: backend.OpCapturing})
	return r.Str, r.Bool
}

// SetListenerPosition places the listener at eye, looking toward lookAt with the
// given up vector.
func (s *System) SetListenerPosition(eye, lookAt, up spatial.Vector3) {
	cmd := backend.Command{Op: backend.OpSetListenerPosition}
	putVector(cmd.Float[0:3], eye)
	putVector(cmd.Float[3:6], lookAt)
	putVector(cmd.Float[6:9], up)
	_ = s.exec(cmd)
}

func (s *System) ListenerPosition() (eye, lookAt, up spatial.Vector3) {
	r := s.query(backend.Query{Op: backend.OpListenerPosition})
	return vector(r.Float[0:3]), vector(r.Float[3:6]), vector(r.Float[6:9])
}

func (s *System) SetListenerVelocity(v spatial.Vector3) {
	cmd := backend.Command{Op: backend.OpSetListenerVelocity}
	putVector(cmd.Float[0:3], v)
	_ = s.exec(cmd)
}

func (s *System) ListenerVelocity() spatial.Vector3 {
	r := s.query(backend.Query{Op: backend.OpListenerVelocity})
	return vector(r.Float[0:3])
}

// SetAttenuation sets the distance attenuation curve of every 3D sound.
func (s *System) SetAttenuation(mode spatial.Mode, near, far, farVolume float32) {
	_ = s.exec(backend.Command{
		Op:    backend.OpSetAttenuation,
		Int:   [2]int{int(mode)},
		Float: [9]float32{near, far, farVolume},
	})
}

func (s *System) Attenuation() spatial.Attenuation {
	r := s.query(backend.Query{Op: backend.OpAttenuation})
	return spatial.NewAttenuation(spatial.Mode(r.Int[0]), r.Float[0], r.Float[1], r.Float[2])
}

// SetSpeedOfSound sets the speed of sound in world units per second used for
// doppler shift. 0 disables doppler.
func (s *System) SetSpeedOfSound(c float32) {
	_ = s.exec(backend.Command{Op: backend.OpSetSpeedOfSound, Float: [9]float32{c}})
}

func (s *System) SpeedOfSound() float32 {
	return s.query(backend.Query{Op: backend.OpSpeedOfSound}).Float[0]
}

func putVector(dst []float32, v spatial.Vector3) {
	dst[0], dst[1], dst[2] = v.X, v.Y, v.Z
}

func vector(f []float32) spatial.Vector3 {
	return spatial.Vector3{X: f[0], Y: f[1], Z: f[2]}
}
