package graph

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Clock drives a Graph's processing cycle. Start is called by Graph.Open and
// Stop by Graph.Close; Stop must not return before the last Process call made
// by the clock has returned.
type Clock interface {
	Start(g *Graph) error
	Stop() error
}

// CycleFrames returns the number of output frames in one AudioUpdate period.
func CycleFrames(cfg Config) int {
	cfg = cfg.withDefaults()
	return int(int64(cfg.SampleRate) * int64(cfg.AudioUpdate) / int64(time.Second))
}

type tickerClock struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTickerClock returns a Clock that runs one cycle every Config.AudioUpdate
// from a timer, for use without an audio device.
func NewTickerClock() Clock {
	return &tickerClock{}
}

func (c *tickerClock) Start(g *Graph) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return errors.New("graph: clock already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	period := g.Config().AudioUpdate
	frames := CycleFrames(g.Config())
	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Process(frames)
			}
		}
	}()
	return nil
}

func (c *tickerClock) Stop() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
