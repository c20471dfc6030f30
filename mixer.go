package audiograph

import "github.com/pion/audiograph/pkg/backend"

// Mixer is a node of the mixer tree. A sound's effective volume is its own
// volume times the volume of its mixer and every ancestor; it is paused when its
// mixer or any ancestor is.
type Mixer struct {
	proxy
}

func (m *Mixer) base() *proxy { return &m.proxy }

func (m *Mixer) Name() string {
	return m.get(backend.OpMixerName, 0).Str
}

// SetName renames the mixer. Names longer than 31 bytes are truncated.
func (m *Mixer) SetName(name string) {
	m.set(backend.Command{Op: backend.OpMixerSetName, Str: name})
}

func (m *Mixer) Volume() float32 {
	return m.getFloat(backend.OpMixerVolume)
}

func (m *Mixer) SetVolume(v float32) {
	m.set(backend.Command{Op: backend.OpMixerSetVolume, Float: [9]float32{v}})
}

// MixedVolume returns the product of the volumes of m and its ancestors.
func (m *Mixer) MixedVolume() float32 {
	return m.getFloat(backend.OpMixerMixedVolume)
}

func (m *Mixer) IsPaused() bool {
	return m.getBool(backend.OpMixerPaused)
}

func (m *Mixer) SetPaused(paused bool) {
	m.set(backend.Command{Op: backend.OpMixerSetPaused, Bool: paused})
}

// MixedPauseState reports whether m or any of its ancestors is paused.
func (m *Mixer) MixedPauseState() bool {
	return m.getBool(backend.OpMixerMixedPause)
}

// Parent returns the parent mixer, or nil for the master mixer.
func (m *Mixer) Parent() *Mixer {
	return m.sys.mixers.lookup(m.get(backend.OpMixerParent, 0).Ref)
}

// SetParent moves m under parent, or under the master mixer when parent is nil.
// The runtime rejects a parent that is m itself or one of its descendants with
// backend.ErrCycle, and any parent for the master mixer.
func (m *Mixer) SetParent(parent *Mixer) error {
	if parent != nil && !parent.Valid() {
		return ErrInvalidObject
	}
	return m.exec(backend.Command{Op: backend.OpMixerSetParent, Ref: handleOf(parent)})
}

// Destroy destroys the mixer. Its sounds and child mixers move to its parent.
// The master mixer cannot be destroyed.
func (m *Mixer) Destroy() {
	if m == m.sys.master {
		m.sys.log.Errorf("the master mixer cannot be destroyed")
		return
	}
	m.proxy.Destroy()
}
