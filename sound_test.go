package audiograph

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pion/audiograph/pkg/backend/graph"
	"github.com/pion/audiograph/pkg/pan"
	"github.com/pion/audiograph/pkg/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullLengthLoop(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})
	snd := s.NewBankSoundByName(loadBank(t, s), "second")
	require.NotNil(t, snd)

	require.NoError(t, snd.SetLoop(0, -1))
	start, end := snd.Loop()
	assert.Zero(t, start)
	assert.Equal(t, snd.Length(), end)
	assert.Equal(t, 44100, end)
	assert.InDelta(t, 1000, snd.LengthMs(), 1e-3)

	assert.Error(t, snd.SetLoop(10, 5))
}

func TestLoopPlayback(t *testing.T) {
	testCases := map[string]struct {
		count  int
		frames int
	}{
		"Once":       {count: 0, frames: 100},
		"ThreeTimes": {count: 2, frames: 300},
	}

	for name, c := range testCases {
		c := c
		t.Run(name, func(t *testing.T) {
			s, g := newSystem(t, graph.Config{})
			snd := s.NewBankSoundByName(loadBank(t, s), "short")
			snd.SetLoopCount(c.count)
			snd.Play()

			g.Process(c.frames - 1)
			assert.True(t, snd.IsPlaying())
			g.Process(1)
			assert.False(t, snd.IsPlaying())
		})
	}
}

func TestReleaseLoop(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	snd := s.NewBankSoundByName(loadBank(t, s), "short")
	snd.SetLoopCount(-1)
	snd.Play()

	g.Process(250)
	assert.Equal(t, 2, snd.CurrentLoop())
	snd.ReleaseLoop()
	assert.True(t, snd.IsLoopReleased())

	g.Process(49)
	assert.True(t, snd.IsPlaying())
	g.Process(1)
	assert.False(t, snd.IsPlaying())
	assert.Equal(t, 2, snd.CurrentLoop(), "stops after finishing the released loop")

	snd.Play()
	assert.False(t, snd.IsLoopReleased())
}

func TestPanMatrixRoundTrip(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})
	snd := s.NewBankSoundByName(loadBank(t, s), "short")

	m := pan.Matrix{LL: 0.3, LR: 0.11, RL: 0.7, RR: 0.123}
	snd.SetPanMatrix(m)
	assert.Equal(t, m, snd.PanMatrix())

	snd.SetPan(0)
	assert.Equal(t, pan.Stereo(0), snd.PanMatrix())
	assert.Zero(t, snd.Pan())
}

func TestPlaybackControls(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	b := loadBank(t, s)
	snd := s.NewBankSoundByName(b, "second")

	snd.SetPitchShift(12)
	assert.InDelta(t, 2, snd.Speed(), 1e-6)
	assert.InDelta(t, 12, snd.PitchShift(), 1e-4)
	snd.SetSpeed(1)

	snd.SetPlayPositionMs(500)
	g.Process(0)
	assert.Equal(t, 22050, snd.PlayPosition())
	assert.InDelta(t, 500, snd.PlayPositionMs(), 1e-3)

	snd.SetVolume(0.5)
	s.Master().SetVolume(0.5)
	assert.Equal(t, float32(0.5), snd.Volume())
	assert.InDelta(t, 0.25, snd.MixedVolume(), 1e-6)

	snd.SetPaused(true)
	assert.True(t, snd.IsPaused())
	assert.True(t, snd.MixedPauseState())

	assert.Equal(t, 44100, snd.SampleRate())
	assert.Equal(t, 1, snd.Channels())
	assert.Equal(t, 0, snd.LoopCount())
}

func TestNextSound(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	b := loadBank(t, s)
	first, second := s.NewBankSoundByName(b, "short"), s.NewBankSoundByName(b, "short")

	first.SetNextSound(second)
	assert.Same(t, second, first.NextSound())
	first.Play()
	g.Process(130)

	assert.False(t, first.IsPlaying())
	assert.True(t, second.IsPlaying())
	assert.Equal(t, 30, second.PlayPosition())

	first.SetNextSound(nil)
	assert.Nil(t, first.NextSound())
}

func TestSpatialSound(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})
	snd := s.NewBankSoundByName(loadBank(t, s), "short")

	snd.Set3dPosition(spatial.Vector3{X: 500})
	assert.False(t, snd.IsVirtual(), "2D sounds are never virtual")
	snd.Set3dEnabled(true)
	assert.True(t, snd.Is3dEnabled())
	assert.True(t, snd.IsVirtual())
	assert.Equal(t, spatial.Vector3{X: 500}, snd.Position3d())

	s.SetAttenuation(spatial.None, 1, 1000, 0)
	assert.False(t, snd.IsVirtual())

	snd.Set3dVelocity(spatial.Vector3{Y: -1})
	assert.Equal(t, spatial.Vector3{Y: -1}, snd.Velocity3d())
}

func TestStreamSound(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, 4000),
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	snd := s.NewStreamSound(path)
	require.NotNil(t, snd)
	assert.Eventually(t, snd.IsReady, time.Second, time.Millisecond)
	assert.Equal(t, 4000, snd.Length())
	assert.InDelta(t, 500, snd.LengthMs(), 1e-3)

	assert.Nil(t, s.NewStreamSound(filepath.Join(t.TempDir(), "missing.ogg")))

	t.Run("Range", func(t *testing.T) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		pack := filepath.Join(t.TempDir(), "sounds.pak")
		require.NoError(t, os.WriteFile(pack, append(make([]byte, 32), data...), 0o600))

		snd := s.NewStreamSoundRange(pack, 32, 0, ".wav")
		require.NotNil(t, snd)
		assert.Eventually(t, snd.IsReady, time.Second, time.Millisecond)
		assert.Equal(t, 4000, snd.Length())
		assert.Equal(t, 8000, snd.SampleRate())

		assert.Nil(t, s.NewStreamSoundRange(pack, 32, 0, ""))
	})
}

func TestExtremePitchShift(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})
	snd := s.NewBankSoundByName(loadBank(t, s), "short")
	require.NotNil(t, snd)

	snd.SetPitchShift(2000)
	assert.Equal(t, float32(1), snd.Speed())
	assert.Zero(t, snd.PitchShift())
}

func TestBankSounds(t *testing.T) {
	s, g := newSystem(t, graph.Config{})
	b := loadBank(t, s)

	assert.True(t, b.IsLoaded())
	assert.False(t, b.IsFailed())
	assert.Equal(t, "test", b.Name())
	assert.Equal(t, 2, b.NumSounds())
	assert.Equal(t, "second", b.SoundName(0))
	assert.Empty(t, b.SoundName(5))
	assert.Same(t, b, s.FindBank("test"))

	assert.Nil(t, s.NewBankSound(b, 2))
	assert.Nil(t, s.NewBankSoundByName(b, "missing"))
	assert.Nil(t, s.NewBankSound(nil, 0))
	assert.Nil(t, s.NewBank(filepath.Join(t.TempDir(), "missing.yaml"), 0, 0))

	snd := s.NewBankSound(b, 1)
	snd.Play()
	g.Process(10)
	b.Destroy()
	assert.False(t, snd.IsPlaying())
	assert.True(t, snd.IsFailed())
	assert.Nil(t, s.NewBankSound(b, 0))
}

func TestAsyncBank(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})

	b := s.NewBankAsync(writeBank(t), 0, 0)
	require.NotNil(t, b)
	assert.Eventually(t, b.IsLoaded, time.Second, time.Millisecond)
	require.NotNil(t, s.NewBankSound(b, 0))

	bad := s.NewBankAsync(filepath.Join(t.TempDir(), "missing.yaml"), 0, 0)
	require.NotNil(t, bad)
	assert.Eventually(t, bad.IsFailed, time.Second, time.Millisecond)
	assert.False(t, bad.IsLoaded())
}

func TestSoundDestroy(t *testing.T) {
	s, _ := newSystem(t, graph.Config{})
	snd := s.NewBankSoundByName(loadBank(t, s), "short")

	snd.Destroy()
	snd.Destroy()
	snd.Play()
	assert.False(t, snd.IsPlaying())
	assert.Zero(t, snd.Length())
	assert.Zero(t, snd.PanMatrix())
	assert.Nil(t, snd.Mixer())
	assert.ErrorIs(t, snd.SetLoop(0, 10), ErrInvalidObject)
}
