package graph

import (
	"fmt"
	"os"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/bank"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/stream"
)

func (g *Graph) createMixer(req backend.Request) (handle.Handle, error) {
	parent := req.Parent
	if parent == handle.Nil {
		parent = g.master
	}
	if err := g.check(backend.KindMixer, parent); err != nil {
		return handle.Nil, fmt.Errorf("mixer parent: %w", err)
	}

	h, err := g.alloc(backend.KindMixer)
	if err != nil {
		return handle.Nil, err
	}
	g.mixers[h] = &mixer{
		h:      h,
		seq:    g.seq,
		name:   truncateName(req.Name),
		volume: 1,
		parent: parent,
	}
	return h, nil
}

func (g *Graph) createBus() (handle.Handle, error) {
	h, err := g.alloc(backend.KindEffectBus)
	if err != nil {
		return handle.Nil, err
	}
	g.buses[h] = &bus{h: h, seq: g.seq, wetDry: 1}
	return h, nil
}

func (g *Graph) createEffect(req backend.Request) (handle.Handle, error) {
	proc, err := g.cfg.Effects.New(req.Effect)
	if err != nil {
		g.log.Infof("cannot create %s effect: %v", req.Effect, err)
		return handle.Nil, err
	}

	h, err := g.alloc(backend.KindEffect)
	if err != nil {
		return handle.Nil, err
	}
	g.effects[h] = &effectNode{h: h, typ: req.Effect, proc: proc, wetDry: 1}
	return h, nil
}

func (g *Graph) createBank(req backend.Request) (handle.Handle, error) {
	if !req.Async {
		b, err := bank.Load(req.Name, req.Offset, req.Length)
		if err != nil {
			g.log.Infof("cannot load bank %q: %v", req.Name, err)
			return handle.Nil, err
		}
		h, err := g.alloc(backend.KindBank)
		if err != nil {
			return handle.Nil, err
		}
		e := &bankEntry{h: h, seq: g.seq, path: req.Name}
		e.fill(b)
		g.banks[h] = e
		return h, nil
	}

	h, err := g.alloc(backend.KindBank)
	if err != nil {
		return handle.Nil, err
	}
	g.banks[h] = &bankEntry{h: h, seq: g.seq, path: req.Name}

	g.loads.Add(1)
	go func() {
		defer g.loads.Done()
		b, err := bank.Load(req.Name, req.Offset, req.Length)

		g.mu.Lock()
		defer g.mu.Unlock()
		e, ok := g.banks[h]
		if !ok {
			return
		}
		if err != nil {
			g.log.Infof("cannot load bank %q: %v", req.Name, err)
			e.failed = true
			return
		}
		e.fill(b)
	}()
	return h, nil
}

func (e *bankEntry) fill(b *bank.Bank) {
	e.name = b.Name
	e.names = b.Names()
	e.sounds = make([]bankSound, len(b.Sounds))
	for i, s := range b.Sounds {
		e.sounds[i] = bankSound{
			frames:     s.Frames,
			sampleRate: s.SampleRate,
			channels:   s.Channels,
			loopStart:  s.LoopStart,
			loopEnd:    s.LoopEnd,
			loopCount:  s.LoopCount,
			volume:     s.Volume,
			pan:        s.Pan,
		}
	}
	e.loaded = true
}

func (g *Graph) createBankSound(req backend.Request) (handle.Handle, error) {
	if err := g.check(backend.KindBank, req.Parent); err != nil {
		return handle.Nil, fmt.Errorf("sound bank: %w", err)
	}
	e := g.banks[req.Parent]
	if !e.loaded {
		return handle.Nil, fmt.Errorf("%w: %s", backend.ErrNotLoaded, e.path)
	}

	index := req.Index
	if req.Name != "" {
		index = -1
		for i, name := range e.names {
			if name == req.Name {
				index = i
				break
			}
		}
		if index < 0 {
			g.log.Infof("bank %q has no sound %q", e.name, req.Name)
			return handle.Nil, fmt.Errorf("%w: no sound %q in bank %q", backend.ErrOutOfRange, req.Name, e.name)
		}
	}
	if index < 0 || index >= len(e.sounds) {
		g.log.Infof("sound index %d out of range for bank %q", index, e.name)
		return handle.Nil, fmt.Errorf("%w: sound index %d", backend.ErrOutOfRange, index)
	}

	h, err := g.alloc(backend.KindSound)
	if err != nil {
		return handle.Nil, err
	}
	bs := e.sounds[index]
	s := newSound(h, g.seq, g.master)
	s.bank = req.Parent
	s.ready = true
	s.frames, s.sampleRate, s.channels = bs.frames, bs.sampleRate, bs.channels
	s.loopStart, s.loopEnd, s.loopCount = bs.loopStart, bs.loopEnd, bs.loopCount
	s.volume, s.pan = bs.volume, bs.pan
	g.sounds[h] = s
	return h, nil
}

func (g *Graph) createStreamSound(req backend.Request) (handle.Handle, error) {
	path := req.Name
	var (
		format stream.Format
		err    error
	)
	if req.Ext != "" {
		format, err = stream.FormatFromExt(req.Ext)
	} else {
		format, err = stream.FormatFromPath(path)
	}
	if err != nil {
		g.log.Infof("cannot stream %q: %v", path, err)
		return handle.Nil, err
	}
	if req.Offset < 0 || req.Length < 0 {
		err := fmt.Errorf("%w: offset %d length %d", stream.ErrInvalidRange, req.Offset, req.Length)
		g.log.Infof("cannot stream %q: %v", path, err)
		return handle.Nil, err
	}
	if _, err := os.Stat(path); err != nil {
		g.log.Infof("cannot stream %q: %v", path, err)
		return handle.Nil, err
	}

	h, err := g.alloc(backend.KindSound)
	if err != nil {
		return handle.Nil, err
	}
	s := newSound(h, g.seq, g.master)
	s.path = path
	g.sounds[h] = s

	g.loads.Add(1)
	go func() {
		defer g.loads.Done()
		info, err := stream.ProbeRange(path, req.Offset, req.Length, format)

		g.mu.Lock()
		defer g.mu.Unlock()
		s, ok := g.sounds[h]
		if !ok {
			return
		}
		if err != nil {
			g.log.Infof("cannot stream %q: %v", path, err)
			s.failed = true
			s.playWhenReady = false
			return
		}
		s.frames, s.sampleRate, s.channels = info.Frames, info.SampleRate, info.Channels
		s.ready = true
	}()
	return h, nil
}
