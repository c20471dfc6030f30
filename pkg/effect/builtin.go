package effect

import "math"

type paramSpec struct {
	def      float32
	min, max float32
	integer  bool
}

func (p paramSpec) clamp(v float32) float32 {
	if p.integer {
		v = float32(math.Trunc(float64(v)))
	}
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}

const unbounded = math.MaxFloat32

var builtinParams = map[Kind][]paramSpec{
	BiquadFilter: {
		BiquadFilterType: {def: FilterLowPass, min: FilterLowPass, max: FilterHighShelf, integer: true},
		BiquadFilterFreq: {def: 2000, min: 0.01, max: unbounded},
		BiquadFilterQ:    {def: 1, min: 0.01, max: unbounded},
		BiquadFilterGain: {def: 1, min: -unbounded, max: unbounded},
	},
	BitCrusher: {
		BitCrusherBitResolution: {def: 8, min: 1, max: 24, integer: true},
		BitCrusherHoldMs:        {def: 1, min: 0, max: unbounded},
	},
	RingMod: {
		RingModFreq: {def: 500, min: 0, max: unbounded},
	},
	Distortion: {
		DistortionDrive:  {def: 1, min: -unbounded, max: unbounded},
		DistortionOffset: {def: 0, min: -unbounded, max: unbounded},
	},
}

// NumParams returns the size of a built-in kind's dense parameter ID space, or 0
// for custom kinds.
func NumParams(k Kind) int {
	return len(builtinParams[k])
}

// DefaultParam returns the value a fresh built-in effect reports for id.
func DefaultParam(k Kind, id int) (float32, error) {
	specs, ok := builtinParams[k]
	if !ok {
		return 0, ErrUnknownKind
	}
	if id < 0 || id >= len(specs) {
		return 0, ErrUnknownParam
	}
	return specs[id].def, nil
}

// builtin keeps the parameter values of a built-in kind. Sample processing is not
// done here.
type builtin struct {
	kind   Kind
	specs  []paramSpec
	values []float32
}

func newBuiltin(k Kind) *builtin {
	specs := builtinParams[k]
	values := make([]float32, len(specs))
	for i, s := range specs {
		values[i] = s.def
	}
	return &builtin{kind: k, specs: specs, values: values}
}

func (b *builtin) SetParam(id int, value float32) error {
	if id < 0 || id >= len(b.specs) {
		return ErrUnknownParam
	}
	b.values[id] = b.specs[id].clamp(value)
	return nil
}

func (b *builtin) Param(id int) (float32, error) {
	if id < 0 || id >= len(b.values) {
		return 0, ErrUnknownParam
	}
	return b.values[id], nil
}

// Reset is a no-op: built-in kinds keep no running state on the control side.
func (b *builtin) Reset() {}
