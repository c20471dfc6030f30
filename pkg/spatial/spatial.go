package spatial

const (
	// VirtualThreshold is the attenuated volume below which a sound is inaudible
	// and may be virtualized by the runtime.
	VirtualThreshold = 0.005
	// nearPanFraction of the near distance is the radius inside which pan is 0.
	nearPanFraction = 0.1
	minUpMagnitude  = 1.0e-15
)

// Listener is the single point of view all 3D sounds are positioned against.
type Listener struct {
	Position Vector3
	LookAt   Vector3
	Up       Vector3
	Velocity Vector3
}

// DefaultListener sits at the origin looking down -Z with +Y up.
func DefaultListener() Listener {
	return Listener{
		LookAt: Vector3{0, 0, -1},
		Up:     Vector3{0, 1, 0},
	}
}

// SetOrientation updates position, look-at and up. An up vector too small to
// normalize is ignored and false is returned; position and look-at still apply.
func (l *Listener) SetOrientation(eye, lookAt, up Vector3) bool {
	l.Position = eye
	l.LookAt = lookAt
	if up.Magnitude() < minUpMagnitude {
		return false
	}
	l.Up = up.Normalize()
	return true
}

// Emitter is the 3D state of one sound.
type Emitter struct {
	Position Vector3
	Velocity Vector3
}

// Result is what the runtime applies to a 3D sound on each update.
type Result struct {
	Volume     float32
	Pan        float32
	SpeedRatio float32
	Virtual    bool
}

// Compute places e relative to l. soundSpeed is the speed of sound in world units
// per second; 0 or less disables doppler and yields a speed ratio of 1.
func Compute(e Emitter, l Listener, at Attenuation, soundSpeed float32) Result {
	d := e.Position.Sub(l.Position)
	dist := d.Magnitude()

	res := Result{
		Volume:     at.Volume(dist),
		SpeedRatio: 1,
	}
	res.Pan = computePan(d, dist, l, at)

	if soundSpeed > 0 && dist > 0 {
		invDist := 1 / dist
		vMin := -soundSpeed * 0.99
		// vs: emitter speed away from the listener, vr: listener speed toward the emitter
		vs := e.Velocity.Dot(d) * invDist
		vr := l.Velocity.Dot(d) * invDist
		if vs < vMin {
			vs = vMin
		}
		if vr < vMin {
			vr = vMin
		}
		res.SpeedRatio = (soundSpeed + vr) / (soundSpeed + vs)
	}

	res.Virtual = res.Volume < VirtualThreshold
	return res
}

// computePan projects the listener-to-emitter vector onto the listener's ear plane
// and measures it against the right-ear axis. Inside the near distance the pan
// fades toward center.
func computePan(d Vector3, dist float32, l Listener, at Attenuation) float32 {
	nearMin := nearPanFraction * at.Near
	if dist < nearMin {
		return 0
	}

	forward := l.LookAt.Sub(l.Position)
	plane := l.Up.Cross(d.Cross(l.Up))
	mag := plane.Magnitude()

	var p float32
	if mag >= 0.0001 {
		plane = plane.Scale(1 / mag)
		right := forward.Cross(l.Up).Normalize()
		p = plane.Dot(right)
	}

	if dist < at.Near {
		p = remap(dist, nearMin, at.Near, 0, p)
	}
	return p
}
