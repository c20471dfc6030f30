// Package load measures how much of a processing cycle's time budget is spent
// rendering.
package load

import "time"

// Meter keeps an exponentially smoothed render load. A load of 1 means a cycle
// took as long as the audio it produced. Meter is not safe for concurrent use.
type Meter struct {
	smoothing float64
	value     float64
	observed  bool
}

// NewMeter creates a meter. smoothing in (0, 1] is the weight of each new
// observation; values outside that range mean no smoothing.
func NewMeter(smoothing float64) *Meter {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = 1
	}
	return &Meter{smoothing: smoothing}
}

// Observe records a cycle that was busy for busy out of budget and returns the
// updated load. A non-positive budget is ignored.
func (m *Meter) Observe(busy, budget time.Duration) float64 {
	if budget <= 0 {
		return m.value
	}

	sample := busy.Seconds() / budget.Seconds()
	if !m.observed {
		m.value = sample
		m.observed = true
		return m.value
	}
	m.value += m.smoothing * (sample - m.value)
	return m.value
}

// Load returns the current smoothed load.
func (m *Meter) Load() float64 {
	return m.value
}

// Reset forgets every observation.
func (m *Meter) Reset() {
	m.value = 0
	m.observed = false
}
