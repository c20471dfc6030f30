// Package audiograph is the control-plane object model of a real-time audio
// engine. It exposes mixers, effect buses, effects, sounds and banks whose state
// lives inside an audio runtime that renders on its own schedule, and keeps the
// client objects in step with the runtime's lifecycle events.
//
// A System talks to the runtime through a backend.Backend. Objects are created by
// System factories, which return nil when the runtime cannot create the entity,
// and are destroyed explicitly with Destroy. Methods on a destroyed object do
// nothing and getters return zero values.
package audiograph

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pion/audiograph/internal/logging"
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/handle"
	plogging "github.com/pion/logging"
)

const sweepBuffer = 64

type sweepItem struct {
	reap func(handle.Handle) bool
	kind backend.Kind
	h    handle.Handle
}

// System is one client of an audio runtime. It owns a registry per entity kind
// and the runtime connection. Several Systems may run side by side, each with its
// own backend.
type System struct {
	SystemOptions

	log     plogging.LeveledLogger
	backend backend.Backend

	mixers  *registry[Mixer]
	buses   *registry[EffectBus]
	effects *registry[Effect]
	sounds  *registry[Sound]
	banks   *registry[Bank]

	master *Mixer
	global *EffectBus

	violations atomic.Int64

	closeOnce sync.Once
	sweeps    chan sweepItem
	done      chan struct{}
	swept     sync.WaitGroup
}

// New opens b and returns a System bound to it. The registries are active before
// b is opened, so the master mixer and global effect bus created during Open are
// registered.
func New(b backend.Backend, opts ...SystemOption) (*System, error) {
	o := SystemOptions{leakSweep: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}

	s := &System{
		SystemOptions: o,
		log:           logging.NewLoggerFrom(o.loggerFactory, "audiograph"),
		backend:       b,
		done:          make(chan struct{}),
	}
	s.mixers = newRegistry[Mixer](s, backend.KindMixer)
	s.buses = newRegistry[EffectBus](s, backend.KindEffectBus)
	s.effects = newRegistry[Effect](s, backend.KindEffect)
	s.sounds = newRegistry[Sound](s, backend.KindSound)
	s.banks = newRegistry[Bank](s, backend.KindBank)
	s.activate()

	if s.leakSweep {
		s.sweeps = make(chan sweepItem, sweepBuffer)
		s.swept.Add(1)
		go s.sweeper()
	}

	if err := b.Open(s.dispatch); err != nil {
		s.shutdown()
		return nil, fmt.Errorf("audiograph: open backend: %w", err)
	}

	s.master = s.mixers.lookup(s.globalRef(backend.OpMasterMixer))
	s.global = s.buses.lookup(s.globalRef(backend.OpGlobalBus))
	if s.master == nil || s.global == nil {
		_ = b.Close()
		s.shutdown()
		return nil, fmt.Errorf("audiograph: backend has no master mixer or global bus")
	}

	s.log.Infof("system %s opened", s.id)
	return s, nil
}

func (s *System) activate() {
	s.mixers.activate()
	s.buses.activate()
	s.effects.activate()
	s.sounds.activate()
	s.banks.activate()
}

// ID returns the System ID.
func (s *System) ID() uuid.UUID {
	return s.id
}

// Violations returns the number of lifecycle protocol violations the backend
// has committed so far.
func (s *System) Violations() int64 {
	return s.violations.Load()
}

func (s *System) violation(format string, args ...any) {
	s.violations.Add(1)
	msg := fmt.Sprintf(format, args...)
	s.log.Errorf("protocol violation: %s", msg)
	if s.strict {
		panic("audiograph: protocol violation: " + msg)
	}
}

func (s *System) dispatch(ev backend.Event) {
	var created, destroyed func(handle.Handle)
	switch ev.Kind {
	case backend.KindMixer:
		created, destroyed = s.mixers.onCreate, s.mixers.onDestroy
	case backend.KindEffectBus:
		created, destroyed = s.buses.onCreate, s.buses.onDestroy
	case backend.KindEffect:
		created, destroyed = s.effects.onCreate, s.effects.onDestroy
	case backend.KindSound:
		created, destroyed = s.sounds.onCreate, s.sounds.onDestroy
	case backend.KindBank:
		created, destroyed = s.banks.onCreate, s.banks.onDestroy
	default:
		s.violation("event %s has unknown kind", ev)
		return
	}

	switch ev.Type {
	case backend.EventCreated:
		created(ev.Handle)
	case backend.EventDestroyed:
		destroyed(ev.Handle)
	default:
		s.violation("unknown event %s", ev)
	}
}

// sweep hands a collected object's handle to the sweeper. It runs on the
// runtime's cleanup goroutine and never blocks it.
func (s *System) sweep(reap func(handle.Handle) bool, kind backend.Kind, h handle.Handle) {
	item := sweepItem{reap: reap, kind: kind, h: h}
	select {
	case s.sweeps <- item:
	case <-s.done:
	default:
		go func() {
			select {
			case s.sweeps <- item:
			case <-s.done:
			}
		}()
	}
}

func (s *System) sweeper() {
	defer s.swept.Done()
	for {
		select {
		case <-s.done:
			return
		case item := <-s.sweeps:
			if !item.reap(item.h) {
				continue
			}
			s.log.Debugf("destroying dropped %s %s", item.kind, item.h)
			if err := s.backend.Destroy(item.kind, item.h); err != nil {
				s.log.Warnf("destroying dropped %s %s: %v", item.kind, item.h, err)
			}
		}
	}
}

// Close invalidates every object, stops the leak sweep and closes the backend.
// Entities still alive in the runtime are released with it.
func (s *System) Close() error {
	err := errClosed
	s.closeOnce.Do(func() {
		s.shutdown()
		err = s.backend.Close()
		s.log.Infof("system %s closed", s.id)
	})
	return err
}

func (s *System) shutdown() {
	s.mixers.deactivate()
	s.buses.deactivate()
	s.effects.deactivate()
	s.sounds.deactivate()
	s.banks.deactivate()
	close(s.done)
	s.swept.Wait()
}
