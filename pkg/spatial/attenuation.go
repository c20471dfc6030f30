package spatial

import "fmt"

// Mode selects the curve that maps emitter distance to volume between the near
// and far distances.
type Mode int

const (
	// None keeps full volume up to the far distance.
	None Mode = iota
	// Linear interpolates from 1 at near to FarVolume at far.
	Linear
	// InvDistance follows v = a/r + b.
	InvDistance
	// InvDistanceSquared follows v = a/r^2 + b, the most realistic choice for
	// point sources.
	InvDistanceSquared
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Linear:
		return "linear"
	case InvDistance:
		return "inv-distance"
	case InvDistanceSquared:
		return "inv-distance-squared"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const minDistance = 1.0e-12

// Attenuation holds the distance attenuation settings shared by all 3D sounds.
// Use NewAttenuation to get a value with its curve constants computed.
type Attenuation struct {
	Mode      Mode
	Near      float32
	Far       float32
	FarVolume float32

	a, b float32
}

// DefaultAttenuation is inverse-distance-squared from 1 to 100 units, silent at
// the far distance.
func DefaultAttenuation() Attenuation {
	return NewAttenuation(InvDistanceSquared, 1, 100, 0)
}

// NewAttenuation clamps the distances and far volume into a usable range and
// precomputes the curve constants so that volume is 1 at near and farVolume at far.
func NewAttenuation(mode Mode, near, far, farVolume float32) Attenuation {
	if near < minDistance {
		near = minDistance
	}
	if far < near+minDistance {
		far = near + minDistance
	}
	if farVolume < 0 {
		farVolume = 0
	} else if farVolume > 1 {
		farVolume = 1
	}

	at := Attenuation{Mode: mode, Near: near, Far: far, FarVolume: farVolume}
	switch mode {
	case InvDistance:
		rn, rf := 1/near, 1/far
		at.a = (farVolume - 1) / (rf - rn)
		at.b = 1 - at.a*rn
	case InvDistanceSquared:
		rn, rf := 1/(near*near), 1/(far*far)
		at.a = (farVolume - 1) / (rf - rn)
		at.b = 1 - at.a*rn
	}
	return at
}

// Volume returns the attenuated volume at distance dist.
func (at Attenuation) Volume(dist float32) float32 {
	if dist <= at.Near {
		return 1
	}
	if dist >= at.Far {
		return at.FarVolume
	}

	var v float32
	switch at.Mode {
	case Linear:
		v = remap(dist, at.Near, at.Far, 1, at.FarVolume)
	case InvDistance:
		v = at.a/dist + at.b
	case InvDistanceSquared:
		v = at.a/(dist*dist) + at.b
	default:
		v = 1
	}

	if v < at.FarVolume {
		return at.FarVolume
	}
	if v > 1 {
		return 1
	}
	return v
}

func remap(x, x0, x1, y0, y1 float32) float32 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}
