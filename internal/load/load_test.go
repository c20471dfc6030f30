package load

import (
	"math"
	"testing"
	"time"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeterStatic(t *testing.T) {
	m := NewMeter(0.5)
	var precision = 1e-9

	for i := 0; i < 10; i++ {
		m.Observe(time.Millisecond, 4*time.Millisecond)
	}

	expected := 0.25
	if l := m.Load(); l < expected-precision || l > expected+precision {
		t.Fatalf("expected: %f (with %g precision), but got %f", expected, precision, l)
	}
}

func TestMeterDynamic(t *testing.T) {
	m := NewMeter(0.5)

	if l := m.Observe(2*time.Millisecond, 4*time.Millisecond); !near(l, 0.5) {
		t.Fatalf("first observation must be taken as is, got %f", l)
	}
	if l := m.Observe(0, 4*time.Millisecond); !near(l, 0.25) {
		t.Fatalf("expected 0.25, got %f", l)
	}
	if l := m.Observe(time.Millisecond, 0); !near(l, 0.25) {
		t.Fatalf("zero budget must be ignored, got %f", l)
	}

	m.Reset()
	if l := m.Load(); l != 0 {
		t.Fatalf("expected 0 after reset, got %f", l)
	}
}

func TestMeterNoSmoothing(t *testing.T) {
	m := NewMeter(0)
	m.Observe(time.Millisecond, time.Millisecond)
	if l := m.Observe(3*time.Millisecond, 2*time.Millisecond); !near(l, 1.5) {
		t.Fatalf("expected 1.5, got %f", l)
	}
}
