package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttenuationCurves(t *testing.T) {
	cases := []struct {
		name string
		at   Attenuation
		dist float32
		want float32
	}{
		{"inside near", NewAttenuation(Linear, 1, 10, 0), 0.5, 1},
		{"beyond far", NewAttenuation(Linear, 1, 10, 0.2), 20, 0.2},
		{"linear midpoint", NewAttenuation(Linear, 0, 10, 0), 5, 0.5},
		{"none", NewAttenuation(None, 1, 10, 0), 5, 1},
		{"inv distance at near", NewAttenuation(InvDistance, 1, 10, 0), 1, 1},
		{"inv distance squared", NewAttenuation(InvDistanceSquared, 1, 100, 0), 2, 0.249925},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, c.at.Volume(c.dist), 1e-4)
		})
	}
}

func TestAttenuationContinuityAtFar(t *testing.T) {
	for _, mode := range []Mode{Linear, InvDistance, InvDistanceSquared} {
		at := NewAttenuation(mode, 2, 50, 0.1)
		assert.InDelta(t, 0.1, at.Volume(49.999), 1e-3, mode.String())
		assert.InDelta(t, 1, at.Volume(2.0001), 1e-3, mode.String())
	}
}

func TestAttenuationClamps(t *testing.T) {
	at := NewAttenuation(Linear, -1, -5, 3)
	assert.Equal(t, float32(minDistance), at.Near)
	assert.True(t, at.Far > at.Near)
	assert.Equal(t, float32(1), at.FarVolume)
}

func TestComputePan(t *testing.T) {
	l := DefaultListener()
	at := DefaultAttenuation()

	right := Compute(Emitter{Position: Vector3{10, 0, 0}}, l, at, 0)
	assert.InDelta(t, 1, right.Pan, 1e-4)

	left := Compute(Emitter{Position: Vector3{-10, 0, 0}}, l, at, 0)
	assert.InDelta(t, -1, left.Pan, 1e-4)

	ahead := Compute(Emitter{Position: Vector3{0, 0, -10}}, l, at, 0)
	assert.InDelta(t, 0, ahead.Pan, 1e-4)

	above := Compute(Emitter{Position: Vector3{0, 10, 0}}, l, at, 0)
	assert.Equal(t, float32(0), above.Pan)

	close := Compute(Emitter{Position: Vector3{0.05, 0, 0}}, l, at, 0)
	assert.Equal(t, float32(0), close.Pan)
}

func TestVirtual(t *testing.T) {
	l := DefaultListener()
	at := NewAttenuation(Linear, 1, 10, 0)

	near := Compute(Emitter{Position: Vector3{0, 0, -2}}, l, at, 0)
	assert.False(t, near.Virtual)

	far := Compute(Emitter{Position: Vector3{0, 0, -100}}, l, at, 0)
	assert.True(t, far.Virtual)
	assert.Equal(t, float32(0), far.Volume)
}

func TestDoppler(t *testing.T) {
	l := DefaultListener()
	at := DefaultAttenuation()
	const c = 343

	still := Compute(Emitter{Position: Vector3{0, 0, -10}}, l, at, c)
	assert.Equal(t, float32(1), still.SpeedRatio)

	// emitter moving away from the listener lowers pitch
	away := Compute(Emitter{Position: Vector3{0, 0, -10}, Velocity: Vector3{0, 0, -34.3}}, l, at, c)
	assert.InDelta(t, 343.0/(343.0+34.3), away.SpeedRatio, 1e-4)

	// listener moving toward the emitter raises pitch
	l.Velocity = Vector3{0, 0, -34.3}
	toward := Compute(Emitter{Position: Vector3{0, 0, -10}}, l, at, c)
	assert.InDelta(t, (343.0+34.3)/343.0, toward.SpeedRatio, 1e-4)

	disabled := Compute(Emitter{Position: Vector3{0, 0, -10}, Velocity: Vector3{0, 0, -34.3}}, l, at, 0)
	assert.Equal(t, float32(1), disabled.SpeedRatio)
}

func TestListenerOrientation(t *testing.T) {
	l := DefaultListener()
	assert.True(t, l.SetOrientation(Vector3{1, 2, 3}, Vector3{1, 2, 2}, Vector3{0, 5, 0}))
	assert.Equal(t, Vector3{0, 1, 0}, l.Up)

	assert.False(t, l.SetOrientation(Vector3{}, Vector3{0, 0, 1}, Vector3{}))
	assert.Equal(t, Vector3{0, 1, 0}, l.Up, "tiny up vector is ignored")
	assert.Equal(t, Vector3{0, 0, 1}, l.LookAt)
}
