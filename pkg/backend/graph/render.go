package graph

import (
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/pan"
	"github.com/pion/audiograph/pkg/wave"
)

// Voice is one audible sound as seen by a Renderer during a cycle.
type Voice struct {
	Sound    handle.Handle
	Bus      handle.Handle
	Channels int
	// Position is the frame the cycle started at.
	Position float64
	// Step is the number of source frames per output frame.
	Step float64
	// Matrix is the pan matrix scaled by the final volume.
	Matrix pan.Matrix
}

// Renderer fills dst with one cycle of output. dst arrives zeroed.
type Renderer interface {
	Render(dst *wave.Float32Interleaved, voices []Voice)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(dst *wave.Float32Interleaved, voices []Voice)

func (f RendererFunc) Render(dst *wave.Float32Interleaved, voices []Voice) {
	f(dst, voices)
}

// Silence renders nothing.
var Silence Renderer = RendererFunc(func(*wave.Float32Interleaved, []Voice) {})
