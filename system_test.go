package audiograph

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/backend/graph"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystem(t *testing.T) {
	id := uuid.New()
	s, _ := newSystem(t, graph.Config{}, WithID(id))

	assert.Equal(t, id, s.ID())
	require.NotNil(t, s.Master())
	require.NotNil(t, s.GlobalEffectBus())
	assert.Equal(t, "master", s.Master().Name())
	assert.Nil(t, s.Master().Parent())
	assert.Same(t, s.Master(), s.FindMixer("master"))
	assert.Nil(t, s.GlobalEffectBus().OutputBus())
	assert.Zero(t, s.Violations())
}

func TestNewSystemOpenFails(t *testing.T) {
	g := graph.New(graph.Config{})
	require.NoError(t, g.Open(nil))
	defer g.Close()

	s, err := New(g)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestClose(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	m := s.NewMixer("music", nil)
	require.NotNil(t, m)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), errClosed)
	assert.Equal(t, backend.StateClosed, g.State())

	assert.False(t, m.Valid())
	assert.False(t, s.Master().Valid())
	assert.Empty(t, m.Name())
	assert.Zero(t, m.Volume())
	assert.ErrorIs(t, m.SetParent(nil), ErrInvalidObject)
	m.Destroy()
	assert.Nil(t, s.NewMixer("late", nil))
}

func TestProtocolViolation(t *testing.T) {
	t.Run("Lenient", func(t *testing.T) {
		s, _ := newSystem(t, graph.Config{})
		s.dispatch(backend.Event{Type: backend.EventCreated, Kind: backend.KindMixer, Handle: s.Master().Handle()})
		assert.Equal(t, int64(1), s.Violations())
		assert.True(t, s.Master().Valid(), "the registered object is kept")

		s.dispatch(backend.Event{Type: backend.EventCreated, Kind: backend.Kind(42), Handle: 7})
		assert.Equal(t, int64(2), s.Violations())
	})
	t.Run("Strict", func(t *testing.T) {
		s, _ := newSystem(t, graph.Config{}, WithStrictProtocol())
		assert.Panics(t, func() {
			s.dispatch(backend.Event{Type: backend.EventCreated, Kind: backend.KindEffectBus, Handle: s.GlobalEffectBus().Handle()})
		})
	})
}

func TestRegistryIgnoresStaleEvents(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})

	s.dispatch(backend.Event{Type: backend.EventDestroyed, Kind: backend.KindSound, Handle: 12345})
	s.dispatch(backend.Event{Type: backend.EventCreated, Kind: backend.KindSound, Handle: handle.Nil})
	assert.Zero(t, s.sounds.len())
	assert.Zero(t, s.Violations())

	s.sounds.deactivate()
	s.dispatch(backend.Event{Type: backend.EventCreated, Kind: backend.KindSound, Handle: 99})
	assert.Zero(t, s.sounds.len(), "inactive registries drop created events")
}

func TestDestroy(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	m := s.NewMixer("music", nil)
	require.NotNil(t, m)
	h := m.Handle()

	m.Destroy()
	assert.False(t, m.Valid())
	assert.Empty(t, m.Name())
	assert.Zero(t, m.MixedVolume())
	assert.False(t, m.IsPaused())
	assert.Nil(t, m.Parent())
	m.SetVolume(0.5)
	m.Destroy()

	g.Process(0)
	assert.Zero(t, s.mixers.lookup(h))
	_, err := g.Query(backend.Query{Op: backend.OpMixerName, Target: h})
	assert.ErrorIs(t, err, backend.ErrInvalidHandle)

	s.Master().Destroy()
	s.GlobalEffectBus().Destroy()
	assert.True(t, s.Master().Valid())
	assert.True(t, s.GlobalEffectBus().Valid())
}

func TestLeakSweep(t *testing.T) {
	s, g := newSystem(t, graph.Config{})

	func() {
		require.NotNil(t, s.NewMixer("dropped", nil))
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		r, err := g.Query(backend.Query{Op: backend.OpFindMixer, Str: "dropped"})
		return err == nil && r.Ref == handle.Nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestLeakSweepDisabled(t *testing.T) {
	s, _ := newSystem(t, graph.Config{}, WithLeakSweep(false))

	func() {
		require.NotNil(t, s.NewMixer("kept", nil))
	}()
	runtime.GC()
	runtime.GC()

	m := s.FindMixer("kept")
	require.NotNil(t, m)
	assert.Equal(t, "kept", m.Name())
}

func TestWithLock(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	b := loadBank(t, s)
	a, c := s.NewBankSoundByName(b, "short"), s.NewBankSoundByName(b, "short")

	assert.Panics(t, func() {
		s.WithLock(func() {
			a.Play()
			panic("boom")
		})
	})
	s.WithLock(func() {
		c.Play()
		g.Process(10)
		assert.Zero(t, c.PlayPosition(), "locked cycles apply no commands")
	})

	g.Process(10)
	assert.Equal(t, 10, a.PlayPosition())
	assert.Equal(t, 10, c.PlayPosition())
}

func TestQueueFull(t *testing.T) {
	s, g := newSystem(t, graph.Config{MaxAudioTasks: 1})
	b := loadBank(t, s)
	a, c := s.NewBankSound(b, 1), s.NewBankSound(b, 1)

	s.Lock()
	a.Play()
	c.Play()
	s.Unlock()
	g.Process(10)

	assert.True(t, a.IsPlaying())
	assert.False(t, c.IsPlaying(), "the command that overflowed the queue is dropped")
}

func TestGlobalControls(t *testing.T) {
	s, g := newSystem(t, graph.DefaultConfig())

	assert.InDelta(t, 16, s.VolumeRampTime(), 1e-3)
	s.SetVolumeRampTime(30)
	assert.InDelta(t, 30, s.VolumeRampTime(), 1e-3)

	s.Suspend()
	assert.True(t, s.IsSuspended())
	s.Resume()
	assert.False(t, s.IsSuspended())

	eye, look, up := spatial.Vector3{X: 1}, spatial.Vector3{X: 1, Z: -1}, spatial.Vector3{Y: 3}
	s.SetListenerPosition(eye, look, up)
	gotEye, gotLook, gotUp := s.ListenerPosition()
	assert.Equal(t, eye, gotEye)
	assert.Equal(t, look, gotLook)
	assert.Equal(t, spatial.Vector3{Y: 1}, gotUp)

	s.SetListenerVelocity(spatial.Vector3{Z: 2})
	assert.Equal(t, spatial.Vector3{Z: 2}, s.ListenerVelocity())

	assert.Equal(t, spatial.DefaultAttenuation(), s.Attenuation())
	s.SetAttenuation(spatial.InvDistance, 2, 20, 0.1)
	assert.Equal(t, spatial.NewAttenuation(spatial.InvDistance, 2, 20, 0.1), s.Attenuation())

	s.SetSpeedOfSound(343)
	assert.Equal(t, float32(343), s.SpeedOfSound())

	path := filepath.Join(t.TempDir(), "capture.wav")
	require.NoError(t, s.StartCapture(path))
	got, ok := s.Capturing()
	assert.True(t, ok)
	assert.Equal(t, path, got)
	g.Process(48)
	s.StopCapture()
	_, ok = s.Capturing()
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.False(t, s.ClipFlag())
	s.ResetClipFlag()
	assert.GreaterOrEqual(t, s.RenderLoad(), float32(0))

	err = s.StartCapture(filepath.Join(t.TempDir(), "missing", "capture.wav"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, backend.ErrQueueFull))
}
