package audiograph

import "github.com/pion/audiograph/pkg/backend"

// Bank is a set of sounds loaded from one bank file. Destroying a bank stops
// the sounds created from it, which then report IsFailed.
type Bank struct {
	proxy
}

func (b *Bank) base() *proxy { return &b.proxy }

// IsLoaded reports whether the bank finished loading. Banks created with
// NewBank are loaded on return.
func (b *Bank) IsLoaded() bool {
	return b.getBool(backend.OpBankLoaded)
}

// IsFailed reports whether an asynchronous load failed.
func (b *Bank) IsFailed() bool {
	return b.getBool(backend.OpBankFailed)
}

func (b *Bank) Name() string {
	return b.get(backend.OpBankName, 0).Str
}

func (b *Bank) NumSounds() int {
	return b.getInt(backend.OpBankSoundCount)
}

// SoundName returns the name of the index-th sound, or "" when index is out of
// range.
func (b *Bank) SoundName(index int) string {
	return b.get(backend.OpBankSoundName, index).Str
}
