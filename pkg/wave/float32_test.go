package wave

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32Interleaved(t *testing.T) {
	a := NewFloat32Interleaved(ChunkInfo{Len: 4, Channels: 2, SamplingRate: 48000})
	require.Len(t, a.Data, 8)

	for i := 0; i < 4; i++ {
		a.Set(i, 0, float32(i))
		a.Set(i, 1, float32(i+4))
	}
	assert.Equal(t, []float32{0, 4, 1, 5, 2, 6, 3, 7}, a.Data)
	assert.Equal(t, float32(6), a.At(2, 1))

	sub := a.SubAudio(1, 2)
	assert.Equal(t, 2, sub.Size.Len)
	assert.Equal(t, []float32{1, 5, 2, 6}, sub.Data)

	sub.Set(0, 0, 10)
	assert.Equal(t, float32(10), a.At(1, 0), "SubAudio must share the buffer")
}

func TestFloat32InterleavedResize(t *testing.T) {
	a := NewFloat32Interleaved(ChunkInfo{Len: 8, Channels: 2, SamplingRate: 48000})
	backing := &a.Data[0]

	a.Resize(ChunkInfo{Len: 4, Channels: 2, SamplingRate: 48000})
	assert.Len(t, a.Data, 8)
	assert.Same(t, backing, &a.Data[0])

	a.Resize(ChunkInfo{Len: 16, Channels: 2, SamplingRate: 48000})
	assert.Len(t, a.Data, 32)

	src := NewFloat32Interleaved(ChunkInfo{Len: 2, Channels: 1, SamplingRate: 44100})
	src.Data[0], src.Data[1] = 0.5, -0.5
	a.CopyFrom(src)
	assert.Equal(t, src.Size, a.Size)
	assert.Equal(t, []float32{0.5, -0.5}, a.Data)

	a.Clear()
	assert.Equal(t, []float32{0, 0}, a.Data)
}

func TestFloat32InterleavedPeak(t *testing.T) {
	a := &Float32Interleaved{Data: []float32{0.1, -0.7, 0.3}, Size: ChunkInfo{Len: 3, Channels: 1}}
	assert.InDelta(t, 0.7, a.Peak(), 1e-6)
	assert.False(t, a.Clipped())

	a.Data[2] = -1.5
	assert.True(t, a.Clipped())
}

func TestFloat32InterleavedInt(t *testing.T) {
	a := &Float32Interleaved{Data: []float32{0, 1, -1, 2, 0.5}, Size: ChunkInfo{Len: 5, Channels: 1}}
	assert.Equal(t, []int{0, 32767, -32767, 32767, 16383}, a.Int(nil, 16))
}

func TestFloat32InterleavedEncode(t *testing.T) {
	a := &Float32Interleaved{Data: []float32{0.25, -1}, Size: ChunkInfo{Len: 1, Channels: 2}}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			b := make([]byte, 12)
			n := a.Encode(order, b)
			require.Equal(t, 8, n)
			assert.Equal(t, float32(0.25), math.Float32frombits(order.Uint32(b[0:])))
			assert.Equal(t, float32(-1), math.Float32frombits(order.Uint32(b[4:])))

			short := make([]byte, 4)
			assert.Equal(t, 4, a.Encode(order, short))
		})
	}
}

func TestChunkInfo(t *testing.T) {
	c := ChunkInfo{Len: 480, Channels: 2, SamplingRate: 48000}
	assert.Equal(t, 960, c.Samples())
	assert.InDelta(t, 10.0, c.DurationMs(), 1e-9)
	assert.Zero(t, ChunkInfo{Len: 10}.DurationMs())
}
