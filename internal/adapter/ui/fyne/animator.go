package fyne

import (
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Animator is a ports.FrameScheduler driven by a forever-repeating Fyne
// animation. Fyne ticks animations once per display refresh on the UI
// goroutine, so queued callbacks run there, one batch per tick.
type Animator struct {
	anim *fyneapp.Animation

	mu      sync.Mutex
	queue   []func()
	onFrame func()
	running bool
}

var _ ports.FrameScheduler = (*Animator)(nil)

// NewAnimator creates a stopped animator. onFrame, if set, runs after every
// tick that executed at least one callback; the window uses it to repaint.
func NewAnimator(onFrame func()) *Animator {
	a := &Animator{onFrame: onFrame}
	a.anim = &fyneapp.Animation{
		Duration:    time.Second,
		RepeatCount: fyneapp.AnimationRepeatForever,
		Tick:        func(float32) { a.tick() },
	}
	return a
}

// RequestFrame queues fn for the next tick.
func (a *Animator) RequestFrame(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, fn)
}

// Start begins ticking. It requires a running Fyne app.
func (a *Animator) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.mu.Unlock()

	a.anim.Start()
}

// Stop halts ticking. Queued callbacks stay queued.
func (a *Animator) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.mu.Unlock()

	a.anim.Stop()
}

// Pending returns the number of queued callbacks.
func (a *Animator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// tick runs the callbacks queued before it started. Callbacks queued while it
// runs wait for the next tick.
func (a *Animator) tick() {
	a.mu.Lock()
	batch := a.queue
	a.queue = nil
	a.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	if len(batch) > 0 && a.onFrame != nil {
		a.onFrame()
	}
}
