package wave

import (
	"encoding/binary"
	"math"
)

// Float32Interleaved multi-channel interlaced Audio.
type Float32Interleaved struct {
	Data []float32
	Size ChunkInfo
}

func NewFloat32Interleaved(size ChunkInfo) *Float32Interleaved {
	return &Float32Interleaved{
		Data: make([]float32, size.Samples()),
		Size: size,
	}
}

// ChunkInfo returns audio chunk size.
func (a *Float32Interleaved) ChunkInfo() ChunkInfo {
	return a.Size
}

func (a *Float32Interleaved) At(i, ch int) float32 {
	return a.Data[i*a.Size.Channels+ch]
}

func (a *Float32Interleaved) Set(i, ch int, s float32) {
	a.Data[i*a.Size.Channels+ch] = s
}

// SubAudio returns part of the original audio sharing the buffer.
func (a *Float32Interleaved) SubAudio(offsetSamples, nSamples int) *Float32Interleaved {
	ret := *a
	offset := offsetSamples * a.Size.Channels
	n := nSamples * a.Size.Channels
	ret.Data = ret.Data[offset : offset+n]
	ret.Size.Len = nSamples
	return &ret
}

// Resize sets the chunk length, reusing the backing array when it is large enough.
func (a *Float32Interleaved) Resize(size ChunkInfo) {
	n := size.Samples()
	if cap(a.Data) >= n {
		a.Data = a.Data[:n]
	} else {
		a.Data = make([]float32, n)
	}
	a.Size = size
}

// Clear zeroes every sample.
func (a *Float32Interleaved) Clear() {
	clear(a.Data)
}

// CopyFrom makes a a copy of src, reusing as much of a's memory as it can.
func (a *Float32Interleaved) CopyFrom(src *Float32Interleaved) {
	a.Resize(src.Size)
	copy(a.Data, src.Data)
}

// Peak returns the largest absolute sample value.
func (a *Float32Interleaved) Peak() float32 {
	var peak float32
	for _, s := range a.Data {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// Clipped reports whether any sample lies outside [-1, 1].
func (a *Float32Interleaved) Clipped() bool {
	return a.Peak() > 1
}

// Int returns the samples scaled to signed integers of the given bit depth,
// saturating out-of-range values. dst is reused when it is large enough.
func (a *Float32Interleaved) Int(dst []int, bitDepth int) []int {
	if cap(dst) >= len(a.Data) {
		dst = dst[:len(a.Data)]
	} else {
		dst = make([]int, len(a.Data))
	}

	max := float32(int(1)<<(bitDepth-1) - 1)
	for i, s := range a.Data {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		dst[i] = int(s * max)
	}
	return dst
}

// Encode writes the samples as IEEE 754 floats in the given byte order into dst
// and returns the number of bytes written.
func (a *Float32Interleaved) Encode(order binary.ByteOrder, dst []byte) int {
	n := len(dst) / 4
	if n > len(a.Data) {
		n = len(a.Data)
	}
	for i := 0; i < n; i++ {
		order.PutUint32(dst[i*4:], math.Float32bits(a.Data[i]))
	}
	return n * 4
}
