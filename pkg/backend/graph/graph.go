// Package graph is an in-process audio runtime implementing backend.Backend.
//
// A Graph owns the state of every mixer, effect bus, effect, sound and bank and
// advances playback on its processing cycle. Commands update the control-side
// model synchronously, so a query issued after a command observes it. Commands
// that move the playback transport (play, stop, seek) are also queued as tasks
// and take effect at the start of the next cycle; the queue is bounded by
// Config.MaxAudioTasks.
//
// The cycle is driven by a Clock, or by calling Process directly. Sample mixing is
// delegated to a Renderer, which defaults to silence.
package graph

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pion/audiograph/internal/load"
	"github.com/pion/audiograph/internal/logging"
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/capture"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/pion/audiograph/pkg/spatial"
	"github.com/pion/audiograph/pkg/wave"
	plogging "github.com/pion/logging"
)

const loadSmoothing = 0.1

// Graph is the reference runtime. It is safe for concurrent use.
type Graph struct {
	cfg Config
	log plogging.LeveledLogger

	mu      sync.Mutex
	state   backend.State
	handler backend.EventHandler
	arena   *handle.Arena
	seq     uint64
	kinds   map[handle.Handle]backend.Kind
	mixers  map[handle.Handle]*mixer
	buses   map[handle.Handle]*bus
	effects map[handle.Handle]*effectNode
	sounds  map[handle.Handle]*sound
	banks   map[handle.Handle]*bankEntry
	master  handle.Handle
	global  handle.Handle

	tasks   chan func()
	locks   int
	pending []backend.Event
	cycles  uint64
	voices  []Voice

	listener   spatial.Listener
	atten      spatial.Attenuation
	soundSpeed float32
	rampTime   time.Duration
	clip       bool
	meter      *load.Meter
	overloaded bool
	capture    *capture.Writer
	out        *wave.Float32Interleaved

	loads sync.WaitGroup
}

var _ backend.Backend = (*Graph)(nil)

// New creates a closed Graph.
func New(cfg Config) *Graph {
	cfg = cfg.withDefaults()
	return &Graph{
		cfg:   cfg,
		log:   logging.NewLoggerFrom(cfg.LoggerFactory, "audiograph/graph"),
		state: backend.StateClosed,
		meter: load.NewMeter(loadSmoothing),
		out: wave.NewFloat32Interleaved(wave.ChunkInfo{
			Channels:     cfg.Channels,
			SamplingRate: cfg.SampleRate,
		}),
	}
}

// Config returns the settings in effect, defaults applied.
func (g *Graph) Config() Config {
	return g.cfg
}

// State returns the lifecycle state.
func (g *Graph) State() backend.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Open creates the master mixer and the global effect bus, reports both to h and
// starts the clock.
func (g *Graph) Open(h backend.EventHandler) error {
	g.mu.Lock()
	err := g.state.Update(backend.StateOpened, func() error {
		if g.state == backend.StateRunning {
			return errors.New("graph: already open")
		}
		g.reset()
		g.handler = h

		var err error
		if g.master, err = g.alloc(backend.KindMixer); err != nil {
			return err
		}
		g.mixers[g.master] = &mixer{h: g.master, seq: g.seq, name: "master", volume: 1}

		if g.global, err = g.alloc(backend.KindEffectBus); err != nil {
			return err
		}
		g.buses[g.global] = &bus{h: g.global, seq: g.seq, global: true, wetDry: 1}
		return nil
	})
	master, global := g.master, g.global
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.emit(backend.Event{Type: backend.EventCreated, Kind: backend.KindMixer, Handle: master})
	g.emit(backend.Event{Type: backend.EventCreated, Kind: backend.KindEffectBus, Handle: global})

	g.mu.Lock()
	err = g.state.Update(backend.StateRunning, func() error { return nil })
	g.mu.Unlock()
	if err != nil {
		return err
	}

	if g.cfg.Clock != nil {
		if err := g.cfg.Clock.Start(g); err != nil {
			_ = g.Close()
			return fmt.Errorf("graph: starting clock: %w", err)
		}
	}
	g.log.Debugf("opened (%d Hz, %d channels)", g.cfg.SampleRate, g.cfg.Channels)
	return nil
}

func (g *Graph) reset() {
	g.arena = handle.NewArena(g.cfg.MaxHandles)
	g.seq = 0
	g.kinds = make(map[handle.Handle]backend.Kind)
	g.mixers = make(map[handle.Handle]*mixer)
	g.buses = make(map[handle.Handle]*bus)
	g.effects = make(map[handle.Handle]*effectNode)
	g.sounds = make(map[handle.Handle]*sound)
	g.banks = make(map[handle.Handle]*bankEntry)
	g.tasks = make(chan func(), g.cfg.MaxAudioTasks)
	g.locks = 0
	g.pending = nil
	g.listener = spatial.DefaultListener()
	g.atten = spatial.DefaultAttenuation()
	g.soundSpeed = 0
	g.rampTime = g.cfg.VolumeRampTime
	g.clip = false
	g.overloaded = false
	g.meter.Reset()
}

// Close stops the clock, finishes any capture and forgets every entity. No event
// is delivered for entities that were still alive.
func (g *Graph) Close() error {
	if g.State() == backend.StateClosed {
		return nil
	}

	if g.cfg.Clock != nil {
		if err := g.cfg.Clock.Stop(); err != nil {
			g.log.Warnf("stopping clock: %v", err)
		}
	}

	g.mu.Lock()
	var captureErr error
	err := g.state.Update(backend.StateClosed, func() error {
		if g.capture != nil {
			captureErr = g.capture.Close()
			g.capture = nil
		}
		g.handler = nil
		g.reset()
		return nil
	})
	g.mu.Unlock()

	g.loads.Wait()
	g.log.Debug("closed")
	if err != nil {
		return err
	}
	return captureErr
}

func (g *Graph) emit(ev backend.Event) {
	g.mu.Lock()
	h := g.handler
	g.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

// alloc hands out a handle for a new entity of kind k. g.mu must be held.
func (g *Graph) alloc(k backend.Kind) (handle.Handle, error) {
	h, err := g.arena.Alloc()
	if err != nil {
		g.log.Errorf("no handle left for a new %s: %v", k, err)
		return handle.Nil, fmt.Errorf("%w: %v", backend.ErrHandleExhausted, err)
	}
	g.seq++
	g.kinds[h] = k
	return h, nil
}

// free releases h and queues its destroyed event for the next cycle. g.mu must
// be held.
func (g *Graph) free(k backend.Kind, h handle.Handle) {
	delete(g.kinds, h)
	g.arena.Free(h)
	g.pending = append(g.pending, backend.Event{Type: backend.EventDestroyed, Kind: k, Handle: h})
}

// check verifies that h is a live entity of kind k. g.mu must be held.
func (g *Graph) check(k backend.Kind, h handle.Handle) error {
	if g.state == backend.StateClosed {
		return backend.ErrNotOpen
	}
	actual, ok := g.kinds[h]
	if !ok {
		return fmt.Errorf("%w: %s", backend.ErrInvalidHandle, h)
	}
	if actual != k {
		return fmt.Errorf("%w: %s is a %s, not a %s", backend.ErrKindMismatch, h, actual, k)
	}
	return nil
}

// Create allocates one entity. The created event is delivered before Create
// returns.
func (g *Graph) Create(req backend.Request) (handle.Handle, error) {
	g.mu.Lock()
	var (
		h   handle.Handle
		err error
	)
	if g.state == backend.StateClosed {
		err = backend.ErrNotOpen
	} else {
		switch req.Kind {
		case backend.KindMixer:
			h, err = g.createMixer(req)
		case backend.KindEffectBus:
			h, err = g.createBus()
		case backend.KindEffect:
			h, err = g.createEffect(req)
		case backend.KindSound:
			if req.Parent != handle.Nil {
				h, err = g.createBankSound(req)
			} else {
				h, err = g.createStreamSound(req)
			}
		case backend.KindBank:
			h, err = g.createBank(req)
		default:
			err = fmt.Errorf("graph: cannot create %s", req.Kind)
		}
	}
	g.mu.Unlock()

	if err != nil {
		return handle.Nil, err
	}
	g.emit(backend.Event{Type: backend.EventCreated, Kind: req.Kind, Handle: h})
	return h, nil
}

// Destroy removes one entity. Its destroyed event is delivered by the next cycle.
func (g *Graph) Destroy(k backend.Kind, h handle.Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.check(k, h); err != nil {
		return err
	}

	switch k {
	case backend.KindMixer:
		if h == g.master {
			return backend.ErrMasterMixer
		}
		g.destroyMixer(h)
	case backend.KindEffectBus:
		if h == g.global {
			return backend.ErrGlobalBus
		}
		g.destroyBus(h)
	case backend.KindEffect:
		g.destroyEffect(h)
	case backend.KindSound:
		g.destroySound(h)
	case backend.KindBank:
		g.destroyBank(h)
	}
	g.free(k, h)
	return nil
}

// enqueue queues a task for the next cycle. g.mu must be held.
func (g *Graph) enqueue(task func()) error {
	select {
	case g.tasks <- task:
		return nil
	default:
		return backend.ErrQueueFull
	}
}
