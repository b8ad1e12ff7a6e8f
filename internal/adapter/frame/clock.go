package frame

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// SimulatedClock is a manually advanced clock for tests and offline rendering.
type SimulatedClock struct {
	mu  sync.Mutex
	now float64
}

// NewSimulatedClock creates a clock reading start seconds.
func NewSimulatedClock(start float64) *SimulatedClock {
	return &SimulatedClock{now: start}
}

func (c *SimulatedClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward. Negative durations are ignored.
func (c *SimulatedClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	c.now += d.Seconds()
	c.mu.Unlock()
}

var _ ports.Clock = (*SimulatedClock)(nil)
