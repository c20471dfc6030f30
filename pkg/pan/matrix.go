// Package pan implements the 2x2 volume matrix used to place a sound between the
// left and right outputs.
package pan

import "math"

// Matrix routes input channels to output channels. LR is the gain of the right
// input into the left output, RL the gain of the left input into the right output.
// Mono sources only use LL and RR.
type Matrix struct {
	LL, LR, RL, RR float32
}

func clamp(pan float32) float64 {
	if pan < -1 {
		return -1
	}
	if pan > 1 {
		return 1
	}
	return float64(pan)
}

// Mono returns the matrix for a mono source at pan in [-1, 1], following the
// constant-power law of MIDI RP-036.
func Mono(pan float32) Matrix {
	x := math.Pi / 4 * (clamp(pan) + 1)
	return Matrix{
		LL: float32(math.Cos(x)),
		RR: float32(math.Sin(x)),
	}
}

// Stereo returns the matrix for a stereo source at pan in [-1, 1]. Panning left
// folds the right input into the left output and vice versa. The matrix is scaled
// to a total power of 0.5 so a full-scale input does not clip when panned.
func Stereo(pan float32) Matrix {
	p := clamp(pan)
	x := math.Pi / 2 * p

	var m Matrix
	if p < 0 {
		m = Matrix{LL: 1, LR: float32(-math.Sin(x)), RL: 0, RR: float32(math.Cos(x))}
	} else {
		m = Matrix{LL: float32(math.Cos(x)), LR: 0, RL: float32(math.Sin(x)), RR: 1}
	}
	return m.Scale(0.5)
}

// ForChannels returns Mono(pan) for sources with fewer than two channels and
// Stereo(pan) otherwise.
func ForChannels(pan float32, channels int) Matrix {
	if channels < 2 {
		return Mono(pan)
	}
	return Stereo(pan)
}

// Scale returns m with every gain multiplied by s.
func (m Matrix) Scale(s float32) Matrix {
	return Matrix{LL: m.LL * s, LR: m.LR * s, RL: m.RL * s, RR: m.RR * s}
}

// MonoPan recovers the pan of a mono matrix. LR and RL are ignored, and the
// matrix need not have been produced by Mono.
func (m Matrix) MonoPan() float32 {
	ll, rr := float64(m.LL), float64(m.RR)
	power := ll*ll + rr*rr
	if power < 0.0001 {
		return 0
	}
	rNorm := math.Abs(rr) / math.Sqrt(power)
	return float32(math.Asin(rNorm)/(math.Pi/4) - 1)
}

// StereoPan recovers the pan of a stereo matrix from the share of power that
// reaches the right output.
func (m Matrix) StereoPan() float32 {
	ll, lr, rl, rr := float64(m.LL), float64(m.LR), float64(m.RL), float64(m.RR)
	power := ll*ll + lr*lr + rl*rl + rr*rr
	if power < 0.0001 {
		return 0
	}

	scaleSq := 0.5 / power
	right := (rr*rr + rl*rl) * scaleSq
	if right > 0.25 {
		return float32(math.Asin(math.Sqrt(math.Min(4*right-1, 1))) / (math.Pi / 2))
	}
	return float32(-math.Acos(math.Sqrt(4*right)) / (math.Pi / 2))
}

// PanFor recovers the pan of m for a source with the given channel count.
func (m Matrix) PanFor(channels int) float32 {
	if channels < 2 {
		return m.MonoPan()
	}
	return m.StereoPan()
}
