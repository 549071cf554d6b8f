// Package clock advances the playback time in fixed steps.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/jsphweid/pianov/constants"
	log "github.com/sirupsen/logrus"
)

// Clock moves its time forward by Step every Interval while running. Stop
// halts it and rewinds to zero. Tick can be called directly to step by hand.
type Clock struct {
	Step     float64
	Interval time.Duration

	// OnTick, if set, is called from the clock goroutine after every tick.
	OnTick func(now float64)

	mu     sync.Mutex
	now    float64
	cancel context.CancelFunc
	done   chan struct{}
}

func New(step float64, interval time.Duration) *Clock {
	if step <= 0 {
		step = constants.TickStep
	}
	if interval <= 0 {
		interval = constants.TickInterval
	}
	return &Clock{Step: step, Interval: interval}
}

func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Tick advances the clock by one step and returns the new time.
func (c *Clock) Tick() float64 {
	c.mu.Lock()
	c.now += c.Step
	now := c.now
	c.mu.Unlock()
	return now
}

// Start runs the clock until ctx is done or Stop is called. Starting a
// running clock does nothing.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	log.WithFields(log.Fields{
		"function": "Clock.Start",
		"step":     c.Step,
		"interval": c.Interval,
	}).Debug("clock started")
	go c.run(ctx, c.done)
}

func (c *Clock) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := c.Tick()
			if c.OnTick != nil {
				c.OnTick(now)
			}
		}
	}
}

// Stop halts the clock, waits for its goroutine to exit and resets the time
// to zero.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	c.mu.Lock()
	c.now = 0
	c.mu.Unlock()
	log.WithField("function", "Clock.Stop").Debug("clock stopped")
}
