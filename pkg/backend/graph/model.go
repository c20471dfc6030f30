package graph

import (
	"math"
	"unicode/utf8"

	"github.com/pion/audiograph/pkg/effect"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/pan"
	"github.com/pion/audiograph/pkg/spatial"
)

// maxMixerName is the longest mixer name kept, in bytes.
const maxMixerName = 31

type mixer struct {
	h      handle.Handle
	seq    uint64
	name   string
	volume float32
	paused bool
	parent handle.Handle
}

type bus struct {
	h        handle.Handle
	seq      uint64
	global   bool
	effects  []handle.Handle
	output   handle.Handle
	bypassed bool
	wetDry   float32
}

type effectNode struct {
	h        handle.Handle
	typ      effect.Type
	proc     effect.Processor
	bypassed bool
	wetDry   float32
	bus      handle.Handle
}

type bankEntry struct {
	h      handle.Handle
	seq    uint64
	path   string
	name   string
	names  []string
	sounds []bankSound
	loaded bool
	failed bool
}

type bankSound struct {
	frames, sampleRate, channels  int
	loopStart, loopEnd, loopCount int
	volume, pan                   float32
}

type sound struct {
	h    handle.Handle
	seq  uint64
	bank handle.Handle
	path string

	ready, failed bool
	playWhenReady bool

	frames, sampleRate, channels int

	mixer handle.Handle
	bus   handle.Handle
	next  handle.Handle

	playing bool
	paused  bool

	loopStart, loopEnd int
	loopCount          int
	released           bool

	volume      float32
	pan         float32
	matrix      pan.Matrix
	explicitPan bool
	speed       float32
	threeD      bool
	emitter     spatial.Emitter

	// Render side, changed by the processing cycle and queued tasks.
	active      bool
	pos         float64
	currentLoop int
	cycle       uint64
}

func newSound(h handle.Handle, seq uint64, master handle.Handle) *sound {
	return &sound{
		h:       h,
		seq:     seq,
		mixer:   master,
		loopEnd: -1,
		volume:  1,
		speed:   1,
	}
}

// length returns the sound length in frames, or -1 while it is unknown.
func (s *sound) length() int {
	if !s.ready {
		return -1
	}
	return s.frames
}

// loopWindow returns the loop window clamped to the sound length.
func (s *sound) loopWindow() (start, end int) {
	end = s.loopEnd
	if end < 0 || end > s.frames {
		end = s.frames
	}
	start = s.loopStart
	if start >= end {
		start = max(end-1, 0)
	}
	return start, end
}

// move advances the play position by n source frames, wrapping through the loop
// window while loops remain. It reports whether the sound reached its end and how
// many source frames were left over past it.
func (s *sound) move(n float64) (bool, float64) {
	if s.frames <= 0 {
		return true, n
	}
	start, loopEnd := s.loopWindow()
	window := float64(loopEnd - start)
	for {
		looping := s.looping()
		end := s.frames
		if looping {
			end = loopEnd
		}
		if s.pos+n < float64(end) {
			s.pos += n
			return false, 0
		}
		n -= max(float64(end)-s.pos, 0)
		if !looping {
			s.pos = float64(s.frames)
			return true, n
		}
		s.pos = float64(start)
		s.currentLoop++
		s.skipPasses(&n, window)
	}
}

// skipPasses consumes every whole pass through the loop window contained in n,
// bounded by the loops left, so the cost of a move does not grow with its length.
func (s *sound) skipPasses(n *float64, window float64) {
	passes := math.Floor(*n / window)
	if passes < 1 || !s.looping() {
		return
	}
	if s.loopCount < 0 {
		*n = math.Mod(*n, window)
	} else {
		passes = min(passes, float64(s.loopCount-s.currentLoop))
		*n -= passes * window
	}
	s.currentLoop = int(min(float64(s.currentLoop)+passes, math.MaxInt32))
}

func (s *sound) looping() bool {
	return !s.released && (s.loopCount < 0 || s.currentLoop < s.loopCount)
}

func (s *sound) panMatrix() pan.Matrix {
	if s.explicitPan {
		return s.matrix
	}
	return pan.ForChannels(s.pan, s.channels)
}

func (s *sound) panValue() float32 {
	if s.explicitPan {
		return s.matrix.PanFor(s.channels)
	}
	return s.pan
}

func truncateName(name string) string {
	if len(name) <= maxMixerName {
		return name
	}
	name = name[:maxMixerName]
	for len(name) > 0 && !utf8.ValidString(name) {
		name = name[:len(name)-1]
	}
	return name
}
