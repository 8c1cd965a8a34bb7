package ornatree

import (
	"time"
)

// DefaultMaxFrameDt caps a single frame step so a stalled host (debugger,
// window drag) does not snap every morph straight to its target.
const DefaultMaxFrameDt = 250 * time.Millisecond

// Clock turns wall-clock ticks into frame deltas for real-time hosts.
type Clock struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	MaxDt   time.Duration
}

func NewClock(now time.Time) *Clock {
	return &Clock{
		Time:  now,
		MaxDt: DefaultMaxFrameDt,
	}
}

// Tick advances the clock to now and returns the frame delta in seconds.
// Time going backwards yields a zero delta.
func (c *Clock) Tick(now time.Time) float32 {
	dt := now.Sub(c.Time)
	if dt < 0 {
		dt = 0
	}
	if c.MaxDt > 0 && dt > c.MaxDt {
		dt = c.MaxDt
	}

	c.Dt = dt
	c.Time = now
	c.Elapsed += dt
	return float32(dt.Seconds())
}
