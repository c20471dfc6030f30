// Package spatial computes the volume, pan and doppler speed ratio of a 3D sound
// emitter relative to a single listener.
package spatial

import "math"

// Vector3 is a point or direction in listener space.
type Vector3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Magnitude returns the length of v.
func (v Vector3) Magnitude() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length, or v itself if it is zero.
func (v Vector3) Normalize() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}
