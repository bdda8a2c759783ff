package vm

import (
	"context"
	"time"

	"github.com/vsariola/pwmseq"
)

// Clock drives an Engine: one tick, then one Period of sleep, forever. There
// is no catch-up: a slow tick simply makes the music slower.
type Clock struct {
	Period time.Duration // zero means DefaultTickPeriod
	// Sleep suspends the loop between ticks; nil means time.Sleep.
	Sleep func(d time.Duration)
	// MaxTicks stops the clock after this many ticks; zero means never.
	MaxTicks uint64
	// MaxLoops stops the clock when the composition is about to start over
	// for the MaxLoops-th time; zero means never. One plays it through once.
	MaxLoops int
}

// DefaultTickPeriod is the length of one tick, the time resolution of the
// whole sequencer.
const DefaultTickPeriod = time.Millisecond

// Run ticks the engine until ctx is done, the engine fails to write its
// outputs, or MaxTicks or MaxLoops is reached. ctx is only checked between
// ticks; the sleep is never interrupted. A cancelled ctx is a normal stop
// and returns nil.
func (c Clock) Run(ctx context.Context, e *Engine, outputs []pwmseq.Output) error {
	period := c.Period
	if period <= 0 {
		period = DefaultTickPeriod
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for n := uint64(0); c.MaxTicks == 0 || n < c.MaxTicks; n++ {
		if ctx.Err() != nil {
			return nil
		}
		if c.MaxLoops > 0 && n > 0 && e.Loops+1 >= c.MaxLoops && e.AtLoopEnd() {
			return nil
		}
		if err := e.Tick(outputs); err != nil {
			return err
		}
		sleep(period)
	}
	return nil
}
