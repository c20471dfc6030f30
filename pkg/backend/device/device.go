// Package device drives a graph from the default playback device, so that the
// device's data callback sets the pace of the processing cycle.
package device

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/pion/audiograph/internal/logging"
	"github.com/pion/audiograph/pkg/backend/graph"
)

var logger = logging.NewLogger("audiograph/device")

var errStarted = errors.New("device: clock already started")

// Clock is a graph.Clock backed by a miniaudio playback device. Output is rendered
// as 32-bit floats in host byte order.
type Clock struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

// NewClock returns a Clock. The device is opened by Start.
func NewClock() *Clock {
	return &Clock{}
}

func deviceConfig(cfg graph.Config) malgo.DeviceConfig {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.PerformanceProfile = malgo.LowLatency
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = uint32(cfg.Channels)
	config.SampleRate = uint32(cfg.SampleRate)
	config.PeriodSizeInMilliseconds = uint32(max(cfg.AudioUpdate/time.Millisecond, 1))
	return config
}

// render fills out with one cycle of g. Bytes past the rendered chunk are zeroed.
func render(g *graph.Graph, out []byte, frames uint32) {
	chunk := g.Process(int(frames))
	n := chunk.Encode(binary.NativeEndian, out)
	clear(out[n:])
}

func (c *Clock) Start(g *graph.Graph) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		return errStarted
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debugf("%v\n", message)
	})
	if err != nil {
		return err
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frames uint32) {
			render(g, out, frames)
		},
	}
	device, err := malgo.InitDevice(ctx.Context, deviceConfig(g.Config()), callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return err
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return err
	}

	logger.Infof("playback started at %d Hz, %d channels", g.Config().SampleRate, g.Config().Channels)
	c.ctx, c.device = ctx, device
	return nil
}

func (c *Clock) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}

	err := c.device.Stop()
	c.device.Uninit()
	if uerr := c.ctx.Uninit(); err == nil {
		err = uerr
	}
	c.ctx.Free()
	c.ctx, c.device = nil, nil
	return err
}
