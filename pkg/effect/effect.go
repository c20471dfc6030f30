// Package effect describes the effect kinds an effect bus can carry: the four
// built-in kinds with their fixed parameter IDs, and custom kinds identified by an
// externally registered integer ID whose parameters are opaque.
package effect

import (
	"errors"
	"fmt"
)

// Kind is the tag of an effect Type.
type Kind int

const (
	// BiquadFilter is a resonant filter; see the BiquadFilter* parameter IDs.
	BiquadFilter Kind = iota
	// BitCrusher reduces bit depth and effective sample rate for a lo-fi sound.
	BitCrusher
	// RingMod multiplies the signal by a sine wave.
	RingMod
	// Distortion adds drive and DC offset.
	Distortion
	// Custom is an effect created by a factory registered under Type.ID.
	Custom
)

var kindNames = map[Kind]string{
	BiquadFilter: "biquad-filter",
	BitCrusher:   "bit-crusher",
	RingMod:      "ring-mod",
	Distortion:   "distortion",
	Custom:       "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is a tagged variant over effect kinds. ID is only meaningful for Custom.
type Type struct {
	Kind Kind
	ID   int
}

// Builtin returns the Type of a built-in kind.
func Builtin(k Kind) Type {
	return Type{Kind: k}
}

// CustomType returns the Type of the custom kind registered under id.
func CustomType(id int) Type {
	return Type{Kind: Custom, ID: id}
}

func (t Type) String() string {
	if t.Kind == Custom {
		return fmt.Sprintf("custom(%d)", t.ID)
	}
	return t.Kind.String()
}

// IsBuiltin reports whether t names one of the four built-in kinds.
func (t Type) IsBuiltin() bool {
	return t.Kind >= BiquadFilter && t.Kind < Custom
}

// Biquad filter parameter IDs.
const (
	BiquadFilterType = 0
	BiquadFilterFreq = 1
	BiquadFilterQ    = 2
	BiquadFilterGain = 3
)

// Values of the BiquadFilterType parameter.
const (
	FilterLowPass = iota
	FilterHighPass
	FilterBandPass
	FilterNotch
	FilterPeak
	FilterLowShelf
	FilterHighShelf
)

// Bit crusher parameter IDs.
const (
	BitCrusherBitResolution = 0
	BitCrusherHoldMs        = 1
)

// Ring modulator parameter IDs.
const (
	RingModFreq = 0
)

// Distortion parameter IDs.
const (
	DistortionDrive  = 0
	DistortionOffset = 1
)

var (
	// ErrUnknownKind is returned when a Type names neither a built-in kind nor a
	// registered custom kind.
	ErrUnknownKind = errors.New("effect: unknown effect kind")
	// ErrUnknownParam is returned when a parameter ID is outside the kind's ID space.
	ErrUnknownParam = errors.New("effect: unknown parameter id")
	// ErrNilProcessor is returned when a custom factory produces no processor.
	ErrNilProcessor = errors.New("effect: factory returned nil processor")
)

// Processor holds the parameter state of one effect instance. The runtime owns
// processors; the control plane only forwards (id, value) pairs to them.
type Processor interface {
	// SetParam stores value for id, applying the kind's clamping rules.
	SetParam(id int, value float32) error
	// Param returns the current value for id.
	Param(id int) (float32, error)
	// Reset clears any running processing state, keeping parameters.
	Reset()
}
