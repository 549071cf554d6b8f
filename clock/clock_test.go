package clock

import (
	"context"
	"testing"
	"time"

	"github.com/jsphweid/pianov/constants"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := New(0, 0)
	assert.Equal(t, constants.TickStep, c.Step)
	assert.Equal(t, constants.TickInterval, c.Interval)
	assert.Equal(t, 0.0, c.Now())
	assert.False(t, c.Running())
}

func TestManualTick(t *testing.T) {
	c := New(0.5, time.Second)

	assert := assert.New(t)
	assert.Equal(0.5, c.Tick())
	assert.Equal(1.0, c.Tick())
	assert.Equal(1.0, c.Now())

	c.Stop()
	assert.Equal(0.0, c.Now())
}

func TestStartAdvancesUntilStopped(t *testing.T) {
	c := New(0.25, time.Millisecond)
	ticks := make(chan float64, 1024)
	c.OnTick = func(now float64) {
		ticks <- now
	}

	c.Start(context.Background())
	c.Start(context.Background())
	assert.True(t, c.Running())

	var last float64
	for i := 0; i < 3; i++ {
		select {
		case last = <-ticks:
		case <-time.After(time.Second):
			t.Fatal("clock did not tick")
		}
	}
	assert.GreaterOrEqual(t, last, 0.75)

	c.Stop()
	assert.False(t, c.Running())
	assert.Equal(t, 0.0, c.Now())
}

func TestContextCancelStopsAdvancing(t *testing.T) {
	c := New(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()

	// the goroutine exits on its own; Stop only rewinds
	c.Stop()
	before := c.Now()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, before, c.Now())
}
