// Package frame provides frame schedulers and clocks for the visualizer loop.
package frame

import (
	"sync"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Manual is a FrameScheduler driven explicitly by its owner.
// Requested callbacks queue up until Step runs them; callbacks requested while
// stepping are deferred to the following step, like a display refresh.
//
// Thread-safety: This implementation is thread-safe.
type Manual struct {
	mu      sync.Mutex
	queue   []func()
	frames  int
	onFrame func(n int)
}

// NewManual creates an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// OnFrame registers a hook called after every Step with the frame number.
func (m *Manual) OnFrame(fn func(n int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFrame = fn
}

// RequestFrame queues fn for the next Step.
func (m *Manual) RequestFrame(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

// Step runs the callbacks queued before the call and reports how many ran.
func (m *Manual) Step() int {
	m.mu.Lock()
	batch := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	m.mu.Lock()
	m.frames++
	n, hook := m.frames, m.onFrame
	m.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return len(batch)
}

// Run steps n times and returns the total number of callbacks executed.
func (m *Manual) Run(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += m.Step()
	}
	return total
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Frames returns the number of completed steps.
func (m *Manual) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Verify interface implementation at compile time.
var _ ports.FrameScheduler = (*Manual)(nil)
