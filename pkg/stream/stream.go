// Package stream probes audio files for the attributes a streamed sound reports
// before any sample is rendered: frame count, sample rate and channel count.
package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var (
	ErrUnsupportedFormat = errors.New("stream: unsupported format")
	ErrInvalidFile       = errors.New("stream: invalid file")
	ErrInvalidRange      = errors.New("stream: invalid byte range")
)

// Format is a container format recognized by Probe.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatAIFF Format = "aiff"
	FormatMP3  Format = "mp3"
	FormatOgg  Format = "ogg"
)

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	return FormatFromExt(filepath.Ext(path))
}

// FormatFromExt picks the format from an extension given with or without its
// leading dot.
func FormatFromExt(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav", "wave":
		return FormatWAV, nil
	case "aif", "aiff":
		return FormatAIFF, nil
	case "mp3":
		return FormatMP3, nil
	case "ogg", "oga":
		return FormatOgg, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Info describes a probed stream.
type Info struct {
	Format     Format
	Frames     int
	SampleRate int
	Channels   int
}

// Duration returns the playback length at the native sample rate.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}
	return time.Duration(i.Frames) * time.Second / time.Duration(i.SampleRate)
}

// Probe opens path and reads its header.
func Probe(path string) (Info, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	return ProbeReader(f, format)
}

// ProbeRange reads the header of a stream stored in length bytes of path
// starting at offset. A zero length reads to the end of the file.
func ProbeRange(path string, offset, length int64, format Format) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	if offset < 0 || length < 0 || offset >= fi.Size() {
		return Info{}, fmt.Errorf("%w: offset %d length %d size %d", ErrInvalidRange, offset, length, fi.Size())
	}
	if length == 0 || offset+length > fi.Size() {
		length = fi.Size() - offset
	}

	return ProbeReader(io.NewSectionReader(f, offset, length), format)
}

// ProbeReader reads the header of an already opened stream.
func ProbeReader(r io.ReadSeeker, format Format) (Info, error) {
	var (
		info Info
		err  error
	)
	switch format {
	case FormatWAV:
		info, err = probeWAV(r)
	case FormatAIFF:
		info, err = probeAIFF(r)
	case FormatMP3:
		info, err = probeMP3(r)
	case FormatOgg:
		info, err = probeOgg(r)
	default:
		return Info{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", format, err)
	}
	if info.SampleRate <= 0 || info.Channels <= 0 {
		return Info{}, fmt.Errorf("probing %s: %w", format, ErrInvalidFile)
	}
	info.Format = format
	return info, nil
}

func probeWAV(r io.ReadSeeker) (Info, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Info{}, ErrInvalidFile
	}
	dec.ReadInfo()
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, err
	}

	frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8)
	if frameSize == 0 {
		return Info{}, ErrInvalidFile
	}
	return Info{
		Frames:     int(dec.PCMLen() / frameSize),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

func probeAIFF(r io.ReadSeeker) (Info, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return Info{}, ErrInvalidFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return Info{}, ErrInvalidFile
	}
	return Info{
		Frames:     int(dec.NumSampleFrames),
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
	}, nil
}

func probeMP3(r io.ReadSeeker) (Info, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return Info{}, err
	}

	// go-mp3 always decodes to 16-bit stereo.
	const frameSize = 4
	frames := 0
	if n := dec.Length(); n > 0 {
		frames = int(n / frameSize)
	}
	return Info{
		Frames:     frames,
		SampleRate: dec.SampleRate(),
		Channels:   2,
	}, nil
}

func probeOgg(r io.ReadSeeker) (Info, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Frames:     int(dec.Length()),
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
	}, nil
}
