// Package capture writes rendered output chunks to a 16-bit PCM WAV file.
package capture

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pion/audiograph/internal/logging"
	"github.com/pion/audiograph/pkg/wave"
)

const bitDepth = 16

var logger = logging.NewLogger("audiograph/capture")

var (
	ErrClosed         = errors.New("capture: writer is closed")
	ErrFormatMismatch = errors.New("capture: chunk format does not match the file")
)

// Writer appends chunks to a WAV file. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	path   string
	f      *os.File
	enc    *wav.Encoder
	buf    audio.IntBuffer
	frames int
	closed bool
}

// Create truncates or creates path and writes a WAV header for the given format.
func Create(path string, sampleRate, channels int) (*Writer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("capture: invalid format %d Hz, %d channels", sampleRate, channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		path: path,
		f:    f,
		enc:  wav.NewEncoder(f, sampleRate, bitDepth, channels, 1),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}
	logger.Debugf("capturing to %s (%d Hz, %d channels)", path, sampleRate, channels)
	return w, nil
}

// Path returns the file being written.
func (w *Writer) Path() string {
	return w.path
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Write appends chunk, clipping samples to [-1, 1].
func (w *Writer) Write(chunk *wave.Float32Interleaved) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	info := chunk.ChunkInfo()
	if info.Channels != w.buf.Format.NumChannels || info.SamplingRate != w.buf.Format.SampleRate {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrFormatMismatch, info.SamplingRate, info.Channels)
	}

	w.buf.Data = chunk.Int(w.buf.Data, bitDepth)
	if err := w.enc.Write(&w.buf); err != nil {
		return err
	}
	w.frames += info.Len
	return nil
}

// Close finalizes the WAV header and closes the file. Repeated calls are no-ops.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	logger.Debugf("capture to %s finished after %d frames", w.path, w.frames)
	return err
}
