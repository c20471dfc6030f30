package device

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/pion/audiograph/pkg/backend/graph"
	"github.com/pion/audiograph/pkg/wave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceConfig(t *testing.T) {
	testCases := map[string]struct {
		cfg    graph.Config
		period uint32
	}{
		"Default": {
			cfg:    graph.DefaultConfig(),
			period: 5,
		},
		"SubMillisecond": {
			cfg: graph.Config{
				AudioUpdate: 500 * time.Microsecond,
				SampleRate:  44100,
				Channels:    1,
			},
			period: 1,
		},
	}

	for name, c := range testCases {
		c := c
		t.Run(name, func(t *testing.T) {
			config := deviceConfig(c.cfg)
			assert.Equal(t, malgo.Playback, config.DeviceType)
			assert.Equal(t, malgo.FormatF32, config.Playback.Format)
			assert.Equal(t, uint32(c.cfg.Channels), config.Playback.Channels)
			assert.Equal(t, uint32(c.cfg.SampleRate), config.SampleRate)
			assert.Equal(t, c.period, config.PeriodSizeInMilliseconds)
		})
	}
}

func TestRender(t *testing.T) {
	cfg := graph.DefaultConfig()
	cfg.Renderer = graph.RendererFunc(func(dst *wave.Float32Interleaved, _ []graph.Voice) {
		for i := range dst.Data {
			dst.Data[i] = 0.5
		}
	})
	g := graph.New(cfg)
	require.NoError(t, g.Open(nil))
	defer g.Close()

	out := make([]byte, 4*2*4)
	for i := range out {
		out[i] = 0xff
	}
	render(g, out, 3)

	for i := 0; i < 6; i++ {
		assert.Equal(t, float32(0.5), math.Float32frombits(binary.NativeEndian.Uint32(out[i*4:])))
	}
	assert.Equal(t, make([]byte, 8), out[24:])
}

func TestStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewClock().Stop())
}
