package graph

import (
	"github.com/pion/audiograph/pkg/handle"
)

// The destroy helpers detach h from everything that refers to it. g.mu must be
// held and h must be live.

func (g *Graph) destroyMixer(h handle.Handle) {
	m := g.mixers[h]
	for _, child := range g.mixers {
		if child.parent == h {
			child.parent = m.parent
		}
	}
	for _, s := range g.sounds {
		if s.mixer == h {
			s.mixer = m.parent
		}
	}
	delete(g.mixers, h)
}

func (g *Graph) destroyBus(h handle.Handle) {
	b := g.buses[h]
	for _, e := range b.effects {
		g.effects[e].bus = handle.Nil
	}
	for _, s := range g.sounds {
		if s.bus == h {
			s.bus = handle.Nil
		}
	}
	for _, in := range g.buses {
		if in.output == h {
			in.output = handle.Nil
		}
	}
	delete(g.buses, h)
}

func (g *Graph) destroyEffect(h handle.Handle) {
	if e := g.effects[h]; e.bus != handle.Nil {
		g.detachEffect(e)
	}
	delete(g.effects, h)
}

func (g *Graph) detachEffect(e *effectNode) {
	b := g.buses[e.bus]
	for i, other := range b.effects {
		if other == e.h {
			b.effects = append(b.effects[:i:i], b.effects[i+1:]...)
			break
		}
	}
	e.bus = handle.Nil
}

func (g *Graph) destroySound(h handle.Handle) {
	for _, s := range g.sounds {
		if s.next == h {
			s.next = handle.Nil
		}
	}
	delete(g.sounds, h)
}

func (g *Graph) destroyBank(h handle.Handle) {
	for _, s := range g.sounds {
		if s.bank != h {
			continue
		}
		if s.playing {
			g.log.Warnf("stopping sound %s: its bank was destroyed", s.h)
		}
		s.playing, s.active, s.playWhenReady = false, false, false
		s.pos = 0
		s.failed, s.ready = true, false
		s.bank = handle.Nil
		for _, prev := range g.sounds {
			if prev.next == s.h {
				prev.next = handle.Nil
			}
		}
	}
	delete(g.banks, h)
}
