package graph

import (
	"fmt"
	"io"
	"time"

	"github.com/pion/audiograph/pkg/effect"
	"github.com/pion/logging"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings. Zero fields take the defaults listed in
// DefaultConfig, except VolumeRampTime where zero disables ramping.
type Config struct {
	// AudioUpdate is the processing cycle period used by the ticker clock.
	AudioUpdate time.Duration `yaml:"audioUpdate"`
	// MaxAudioTasks bounds the queue of commands waiting for the next cycle.
	MaxAudioTasks int `yaml:"maxAudioTasks"`
	// MaxRenderLoad is the render load above which a warning is logged.
	MaxRenderLoad float64 `yaml:"maxRenderLoad"`
	// SampleRate and Channels describe the rendered output.
	SampleRate int `yaml:"sampleRate"`
	Channels   int `yaml:"channels"`
	// VolumeRampTime is the initial volume ramp time handed to renderers.
	VolumeRampTime time.Duration `yaml:"volumeRampTime"`
	// MaxHandles bounds the number of live entities; 0 means unbounded.
	MaxHandles int `yaml:"maxHandles"`

	// LoggerFactory defaults to the pion default factory.
	LoggerFactory logging.LoggerFactory `yaml:"-"`
	// Clock drives the processing cycle. Nil leaves it to explicit Process calls.
	Clock Clock `yaml:"-"`
	// Renderer fills the output chunk each cycle. Nil renders silence.
	Renderer Renderer `yaml:"-"`
	// Effects resolves custom effect IDs. Nil uses the package registry fed by
	// RegisterCustomEffect.
	Effects *effect.Registry `yaml:"-"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		AudioUpdate:    5 * time.Millisecond,
		MaxAudioTasks:  500,
		MaxRenderLoad:  0.8,
		SampleRate:     48000,
		Channels:       2,
		VolumeRampTime: 16 * time.Millisecond,
	}
}

// LoadConfig reads YAML settings from r on top of the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("graph: reading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AudioUpdate <= 0 {
		c.AudioUpdate = d.AudioUpdate
	}
	if c.MaxAudioTasks <= 0 {
		c.MaxAudioTasks = d.MaxAudioTasks
	}
	if c.MaxRenderLoad <= 0 {
		c.MaxRenderLoad = d.MaxRenderLoad
	}
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.Channels <= 0 {
		c.Channels = d.Channels
	}
	if c.VolumeRampTime < 0 {
		c.VolumeRampTime = d.VolumeRampTime
	}
	if c.Renderer == nil {
		c.Renderer = Silence
	}
	if c.Effects == nil {
		c.Effects = customEffects
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.AudioUpdate < 0:
		return fmt.Errorf("graph: negative audioUpdate %v", c.AudioUpdate)
	case c.MaxAudioTasks < 0:
		return fmt.Errorf("graph: negative maxAudioTasks %d", c.MaxAudioTasks)
	case c.SampleRate < 0:
		return fmt.Errorf("graph: negative sampleRate %d", c.SampleRate)
	case c.Channels < 0 || c.Channels > 2:
		return fmt.Errorf("graph: unsupported channel count %d", c.Channels)
	case c.MaxHandles < 0:
		return fmt.Errorf("graph: negative maxHandles %d", c.MaxHandles)
	}
	return nil
}
