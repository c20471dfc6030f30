// Package bank reads bank manifests: a named collection of sounds with their
// sample attributes and default playback settings.
//
// A manifest is YAML:
//
//	name: sfx
//	sounds:
//	  - name: shot
//	    sampleRate: 44100
//	    channels: 1
//	    frames: 22050
//	  - name: theme
//	    file: theme.wav
//	    loopCount: -1
//
// A sound with a file takes its frame count, sample rate and channel count from
// the probed file, resolved relative to the manifest.
package bank

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pion/audiograph/pkg/stream"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidManifest = errors.New("bank: invalid manifest")
	ErrInvalidRange    = errors.New("bank: invalid byte range")
)

// Sound is one manifest entry.
type Sound struct {
	Name       string  `yaml:"name"`
	File       string  `yaml:"file,omitempty"`
	SampleRate int     `yaml:"sampleRate,omitempty"`
	Channels   int     `yaml:"channels,omitempty"`
	Frames     int     `yaml:"frames,omitempty"`
	LoopStart  int     `yaml:"loopStart,omitempty"`
	LoopEnd    int     `yaml:"loopEnd"`
	LoopCount  int     `yaml:"loopCount,omitempty"`
	Volume     float32 `yaml:"volume"`
	Pan        float32 `yaml:"pan,omitempty"`
}

// UnmarshalYAML fills the defaults for keys the entry leaves out.
func (s *Sound) UnmarshalYAML(node *yaml.Node) error {
	type plain Sound
	p := plain{LoopEnd: -1, Volume: 1}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Sound(p)
	return nil
}

// Bank is a decoded manifest.
type Bank struct {
	Name   string  `yaml:"name"`
	Sounds []Sound `yaml:"sounds"`
}

// Index returns the position of the first sound called name, or -1.
func (b *Bank) Index(name string) int {
	for i, s := range b.Sounds {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the sound names in bank order.
func (b *Bank) Names() []string {
	names := make([]string, len(b.Sounds))
	for i, s := range b.Sounds {
		names[i] = s.Name
	}
	return names
}

// Decode reads a manifest without resolving file entries.
func Decode(r io.Reader) (*Bank, error) {
	var b Bank
	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty", ErrInvalidManifest)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &b, nil
}

// Encode writes b as a manifest.
func Encode(w io.Writer, b *Bank) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}

// Load reads the manifest stored at path in the byte range [offset, offset+length).
// A zero length reads to the end of the file. File entries are probed relative to
// the manifest's directory. A bank without a name is named after path.
func Load(path string, offset, length int64) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset > fi.Size() {
		return nil, fmt.Errorf("%w: offset %d length %d size %d", ErrInvalidRange, offset, length, fi.Size())
	}
	if length == 0 || offset+length > fi.Size() {
		length = fi.Size() - offset
	}

	b, err := Decode(io.NewSectionReader(f, offset, length))
	if err != nil {
		return nil, err
	}
	if b.Name == "" {
		b.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := b.resolve(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bank) resolve(dir string) error {
	for i := range b.Sounds {
		s := &b.Sounds[i]
		if s.File != "" {
			path := s.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			info, err := stream.Probe(path)
			if err != nil {
				return fmt.Errorf("bank %q sound %d: %w", b.Name, i, err)
			}
			s.Frames, s.SampleRate, s.Channels = info.Frames, info.SampleRate, info.Channels
			if s.Name == "" {
				s.Name = strings.TrimSuffix(filepath.Base(s.File), filepath.Ext(s.File))
			}
		}
		if err := s.validate(); err != nil {
			return fmt.Errorf("bank %q sound %d: %w", b.Name, i, err)
		}
	}
	return nil
}

func (s *Sound) validate() error {
	switch {
	case s.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidManifest, s.SampleRate)
	case s.Channels != 1 && s.Channels != 2:
		return fmt.Errorf("%w: %d channels", ErrInvalidManifest, s.Channels)
	case s.Frames < 0:
		return fmt.Errorf("%w: %d frames", ErrInvalidManifest, s.Frames)
	case s.LoopCount < -1:
		return fmt.Errorf("%w: loop count %d", ErrInvalidManifest, s.LoopCount)
	}
	return nil
}
