package audiograph

import (
	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/effect"
	"github.com/pion/audiograph/pkg/handle"
)

// create asks the runtime for a new entity and returns the object its created
// event registered. Failures are logged and yield nil.
func create[T any](s *System, r *registry[T], req backend.Request) *T {
	h, err := s.backend.Create(req)
	if err != nil || h == handle.Nil {
		s.log.Infof("cannot create %s %q: %v", req.Kind, req.Name, err)
		return nil
	}
	obj := r.lookup(h)
	if obj == nil {
		s.violation("no created event for %s %s", req.Kind, h)
	}
	return obj
}

// NewMixer creates a mixer under parent, or under the master mixer when parent
// is nil. Names longer than 31 bytes are truncated.
func (s *System) NewMixer(name string, parent *Mixer) *Mixer {
	if parent != nil && !parent.Valid() {
		s.log.Infof("cannot create mixer %q: %v", name, ErrInvalidObject)
		return nil
	}
	return create(s, s.mixers, backend.Request{Kind: backend.KindMixer, Name: name, Parent: handleOf(parent)})
}

// NewEffectBus creates an effect bus with no effects, routed to the final output.
func (s *System) NewEffectBus() *EffectBus {
	return create(s, s.buses, backend.Request{Kind: backend.KindEffectBus})
}

// NewEffect creates an effect of a built-in kind.
func (s *System) NewEffect(kind effect.Kind) *Effect {
	return create(s, s.effects, backend.Request{Kind: backend.KindEffect, Effect: effect.Builtin(kind)})
}

// NewCustomEffect creates an effect of the custom kind registered under id. It
// returns nil when no such kind is registered.
func (s *System) NewCustomEffect(id int) *Effect {
	return create(s, s.effects, backend.Request{Kind: backend.KindEffect, Effect: effect.CustomType(id)})
}

// NewBank loads the bank at path, reading length bytes from offset. A length of
// 0 reads to the end of the file. It returns nil when the bank cannot be loaded.
func (s *System) NewBank(path string, offset, length int64) *Bank {
	return create(s, s.banks, backend.Request{Kind: backend.KindBank, Name: path, Offset: offset, Length: length})
}

// NewBankAsync starts loading the bank at path in the background. Poll
// IsLoaded and IsFailed for the outcome.
func (s *System) NewBankAsync(path string, offset, length int64) *Bank {
	return create(s, s.banks, backend.Request{Kind: backend.KindBank, Name: path, Offset: offset, Length: length, Async: true})
}

// NewBankSound creates a sound from the index-th entry of a loaded bank.
func (s *System) NewBankSound(bank *Bank, index int) *Sound {
	if handleOf(bank) == handle.Nil {
		s.log.Infof("cannot create sound %d: %v", index, ErrInvalidObject)
		return nil
	}
	return create(s, s.sounds, backend.Request{Kind: backend.KindSound, Parent: handleOf(bank), Index: index})
}

// NewBankSoundByName creates a sound from the entry of a loaded bank named name.
func (s *System) NewBankSoundByName(bank *Bank, name string) *Sound {
	if handleOf(bank) == handle.Nil {
		s.log.Infof("cannot create sound %q: %v", name, ErrInvalidObject)
		return nil
	}
	return create(s, s.sounds, backend.Request{Kind: backend.KindSound, Parent: handleOf(bank), Name: name})
}

// NewStreamSound creates a sound streamed from the file at path. The sound
// becomes ready once the runtime has opened the stream; see Sound.IsReady.
func (s *System) NewStreamSound(path string) *Sound {
	return create(s, s.sounds, backend.Request{Kind: backend.KindSound, Name: path})
}

// NewStreamSoundRange creates a sound streamed from length bytes of the file at
// path starting at offset, for streams packed inside a larger file. A zero length
// reads to the end of the file. ext names the stream format; empty means the
// extension of path.
func (s *System) NewStreamSoundRange(path string, offset, length int64, ext string) *Sound {
	return create(s, s.sounds, backend.Request{
		Kind:   backend.KindSound,
		Name:   path,
		Offset: offset,
		Length: length,
		Ext:    ext,
	})
}
