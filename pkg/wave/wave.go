// Package wave implements the rendered audio chunk shared by the processing
// cycle, the capture sink and the playback device.
package wave

// ChunkInfo contains size of the audio chunk.
type ChunkInfo struct {
	Len          int
	Channels     int
	SamplingRate int
}

// Samples returns the number of interleaved samples in a chunk of this size.
func (c ChunkInfo) Samples() int {
	return c.Len * c.Channels
}

// DurationMs returns the chunk duration in milliseconds.
func (c ChunkInfo) DurationMs() float64 {
	if c.SamplingRate <= 0 {
		return 0
	}
	return float64(c.Len) * 1000 / float64(c.SamplingRate)
}
