package graph

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/pan"
	"github.com/pion/audiograph/pkg/spatial"
	"github.com/pion/audiograph/pkg/wave"
)

// Process runs one processing cycle producing frames output frames and returns
// the rendered chunk. The chunk is reused by the next call. While the graph is
// not running the chunk is silent and nothing advances.
//
// A cycle drains the queued tasks unless the graph is locked, starts sounds that
// were waiting to become ready, advances every playing sound, renders and
// captures the output, and finally delivers the destroyed events accumulated
// since the previous cycle.
func (g *Graph) Process(frames int) *wave.Float32Interleaved {
	begin := time.Now()
	frames = max(frames, 0)

	g.mu.Lock()
	g.out.Resize(wave.ChunkInfo{Len: frames, Channels: g.cfg.Channels, SamplingRate: g.cfg.SampleRate})
	g.out.Clear()
	if g.state != backend.StateRunning {
		g.mu.Unlock()
		return g.out
	}

	if g.locks == 0 {
		g.drain()
	}
	g.cycles++

	sounds := g.sortedSounds()
	for _, s := range sounds {
		if s.playWhenReady && s.ready {
			s.playWhenReady = false
			s.playing, s.released = true, false
			g.start(s)
		}
	}

	g.voices = g.voices[:0]
	for _, s := range sounds {
		if s.active && s.cycle != g.cycles && !s.paused && !g.mixedPause(s.mixer) {
			g.advance(s, float64(frames), 0)
		}
	}

	g.cfg.Renderer.Render(g.out, g.voices)
	if g.out.Clipped() {
		g.clip = true
	}
	if g.capture != nil {
		if err := g.capture.Write(g.out); err != nil {
			g.log.Errorf("capture to %s stopped: %v", g.capture.Path(), err)
			_ = g.stopCapture()
		}
	}
	g.measure(time.Since(begin), frames)

	events, h := g.pending, g.handler
	g.pending = nil
	g.mu.Unlock()

	if h != nil {
		for _, ev := range events {
			h(ev)
		}
	}
	return g.out
}

func (g *Graph) drain() {
	for {
		select {
		case task := <-g.tasks:
			task()
		default:
			return
		}
	}
}

func (g *Graph) sortedSounds() []*sound {
	sounds := make([]*sound, 0, len(g.sounds))
	for _, s := range g.sounds {
		sounds = append(sounds, s)
	}
	slices.SortFunc(sounds, func(a, b *sound) int { return cmp.Compare(a.seq, b.seq) })
	return sounds
}

// advance moves s forward by out output frames and records its voice. When s
// ends and has a next sound, the next sound starts within the same cycle with
// the leftover frames. depth bounds chains that loop back on themselves.
func (g *Graph) advance(s *sound, out float64, depth int) {
	s.cycle = g.cycles

	step := float64(s.speed) * float64(s.sampleRate) / float64(g.cfg.SampleRate)
	res := spatial.Result{Volume: 1, SpeedRatio: 1}
	if s.threeD {
		res = g.place(s)
		step *= float64(res.SpeedRatio)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) || step < 0 {
		step = 0
	}

	if !(s.threeD && res.Virtual) {
		g.voices = append(g.voices, Voice{
			Sound:    s.h,
			Bus:      s.bus,
			Channels: s.channels,
			Position: s.pos,
			Step:     step,
			Matrix:   g.finalMatrix(s, res),
		})
	}

	finished, left := s.move(out * step)
	if !finished {
		return
	}
	s.active, s.playing, s.pos = false, false, 0

	next, ok := g.sounds[s.next]
	if s.next == handle.Nil || !ok || !next.ready || depth >= len(g.sounds) {
		return
	}
	next.playing, next.active = true, true
	next.released, next.playWhenReady = false, false
	next.pos, next.currentLoop = 0, 0

	overshoot := 0.0
	if step > 0 {
		overshoot = left / step
	}
	g.advance(next, overshoot, depth+1)
}

func (g *Graph) finalMatrix(s *sound, res spatial.Result) pan.Matrix {
	m := s.panMatrix()
	volume := s.volume * g.mixedVolume(s.mixer)
	if s.threeD {
		m = pan.ForChannels(res.Pan, s.channels)
		volume *= res.Volume
	}
	return m.Scale(volume)
}

func (g *Graph) measure(busy time.Duration, frames int) {
	if frames == 0 {
		return
	}
	budget := time.Duration(int64(frames) * int64(time.Second) / int64(g.cfg.SampleRate))
	l := g.meter.Observe(busy, budget)

	switch over := l > g.cfg.MaxRenderLoad; {
	case over && !g.overloaded:
		g.log.Warnf("render load %.2f exceeds %.2f", l, g.cfg.MaxRenderLoad)
	case !over && g.overloaded:
		g.log.Debugf("render load back to %.2f", l)
	}
	g.overloaded = l > g.cfg.MaxRenderLoad
}
