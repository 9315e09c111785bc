package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/internal/aggregate"
)

// Countdown tracks the time left until a trip starts. Once it has reported
// the trip as started it keeps doing so, even if the clock moves back.
type Countdown struct {
	first    time.Time
	now      func() time.Time
	interval time.Duration

	mu      sync.Mutex
	started bool
}

// NewCountdown counts down to first using now as the clock.
func NewCountdown(first time.Time, now func() time.Time) *Countdown {
	return &Countdown{first: first, now: now, interval: time.Second}
}

// Remaining returns the time left as of now.
func (c *Countdown) Remaining() aggregate.Remaining {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return aggregate.Remaining{Started: true}
	}
	r := aggregate.Countdown(c.first, c.now())
	c.started = r.Started
	return r
}

// Run calls tick right away and then once a second until the trip has
// started or ctx is done.
func (c *Countdown) Run(ctx context.Context, tick func(aggregate.Remaining)) {
	r := c.Remaining()
	tick(r)
	if r.Started {
		return
	}

	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r := c.Remaining()
			tick(r)
			if r.Started {
				return
			}
		}
	}
}
