// Package visualizer drives the frame loop: it pulls a spectrum from the
// analyser once per display refresh and hands it to the active module and the
// optional analyzer overlay, isolating the canvas state around them.
package visualizer

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

const (
	fpsInterval = 0.5
	fpsFont     = "15pt sans"
	fpsColor    = "white"
	fpsOffsetX  = 35
	fpsOffsetY  = 30
)

// Visualizer owns the frame loop.
//
// Thread-safety: every exported method may be called from any goroutine. The
// frame body runs under the same lock, so Stop returns only after an
// in-flight frame has finished.
type Visualizer struct {
	logger    *slog.Logger
	canvas    ports.Canvas
	analyser  ports.SpectrumAnalyser
	scheduler ports.FrameScheduler
	clock     ports.Clock
	bus       ports.EventBus

	mu         sync.Mutex
	ctx        *Context
	freqs      *domain.FrequencyBuffer
	overlay    *Analyzer
	module     Module
	moduleName string

	active  bool
	pending bool

	analyzerEnabled bool
	fpsVisible      bool

	lastTime    float64
	fps         float64
	lastFPSDraw float64
}

// New creates a stopped visualizer with no module.
// The FPS counter is visible and the analyzer overlay is hidden.
func New(log *slog.Logger, canvas ports.Canvas, analyser ports.SpectrumAnalyser, scheduler ports.FrameScheduler) *Visualizer {
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	ctx := newContext(canvas)
	return &Visualizer{
		logger:     log.With(slog.String("component", "visualizer")),
		canvas:     canvas,
		analyser:   analyser,
		scheduler:  scheduler,
		clock:      systemClock{start: time.Now()},
		ctx:        ctx,
		freqs:      domain.NewFrequencyBuffer(analyser.FrequencyBinCount()),
		overlay:    NewAnalyzer(ctx, analyser.FFTSize()),
		fpsVisible: true,
	}
}

// SetClock replaces the time source. Call before Start.
func (v *Visualizer) SetClock(clock ports.Clock) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clock = clock
}

// SetEventBus enables publishing of visualizer events.
func (v *Visualizer) SetEventBus(bus ports.EventBus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bus = bus
}

// Start begins the frame loop. It is a no-op while already active.
func (v *Visualizer) Start() {
	v.mu.Lock()
	if v.active {
		v.mu.Unlock()
		return
	}
	v.active = true
	v.lastTime = v.clock.Now()
	v.arm()
	name := v.moduleName
	v.mu.Unlock()

	v.logger.Info("visualizer started", slog.String("module", name))
	v.publish(domain.NewVisualizerStartedEvent(name))
}

// Stop ends the frame loop and clears the canvas. Calling it again clears the
// canvas again but publishes nothing.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	wasActive := v.active
	v.active = false
	v.ctx.refresh()
	v.ctx.Clear()
	v.mu.Unlock()

	if wasActive {
		v.logger.Info("visualizer stopped")
		v.publish(domain.NewVisualizerStoppedEvent())
	}
}

// UseModule replaces the active module with one built by factory. The new
// module draws from the next frame on. A nil factory removes the module, which
// lets the loop wind down until another module is set.
func (v *Visualizer) UseModule(name string, factory Factory) {
	v.mu.Lock()
	previous := v.moduleName
	v.module = nil
	v.moduleName = ""
	if factory != nil {
		v.ctx.refresh()
		v.module = factory(v.ctx, v.analyser.FFTSize())
		v.moduleName = name
	}
	if v.active && v.module != nil {
		v.arm()
	}
	current := v.moduleName
	v.mu.Unlock()

	v.logger.Debug("module changed", slog.String("previous", previous), slog.String("module", current))
	v.publish(domain.NewModuleChangedEvent(previous, current))
}

// ToggleAnalyzer flips the overlay flag and returns the new value.
func (v *Visualizer) ToggleAnalyzer() bool {
	v.mu.Lock()
	v.analyzerEnabled = !v.analyzerEnabled
	enabled := v.analyzerEnabled
	v.mu.Unlock()

	v.publish(domain.NewAnalyzerToggledEvent(enabled))
	return enabled
}

// ToggleFPS flips the FPS counter flag and returns the new value.
func (v *Visualizer) ToggleFPS() bool {
	v.mu.Lock()
	v.fpsVisible = !v.fpsVisible
	visible := v.fpsVisible
	v.mu.Unlock()

	v.publish(domain.NewFPSToggledEvent(visible))
	return visible
}

// SetAnalyzerEnabled sets the overlay flag without publishing an event.
func (v *Visualizer) SetAnalyzerEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.analyzerEnabled = enabled
}

// SetFPSVisible sets the FPS counter flag without publishing an event.
func (v *Visualizer) SetFPSVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fpsVisible = visible
}

func (v *Visualizer) IsActive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// ModuleName returns the name the active module was registered with.
func (v *Visualizer) ModuleName() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.moduleName
}

func (v *Visualizer) AnalyzerEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.analyzerEnabled
}

func (v *Visualizer) FPSVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fpsVisible
}

// FPS returns the last FPS estimate.
func (v *Visualizer) FPS() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fps
}

// Analyzer returns the overlay so its tuning fields can be adjusted.
// Adjust it only while the loop is stopped or from a module's Update.
func (v *Visualizer) Analyzer() *Analyzer {
	return v.overlay
}

// Context returns the context shared with modules.
func (v *Visualizer) Context() *Context {
	return v.ctx
}

// arm requests the next frame unless one is already outstanding.
// Caller must hold v.mu.
func (v *Visualizer) arm() {
	if v.pending {
		return
	}
	v.pending = true
	v.scheduler.RequestFrame(v.update)
}

// update is one frame of the loop.
func (v *Visualizer) update() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pending = false
	if !v.active || v.module == nil {
		return
	}
	v.arm()

	now := v.clock.Now()
	v.ctx.refresh()
	v.analyser.ByteFrequencyData(v.freqs.Bytes())

	v.draw(now)

	if v.fpsVisible {
		v.drawFPS(now)
	}
	v.lastTime = now
}

// draw runs the module and then the overlay inside one Save/Restore scope.
// Each of them also gets its own nested scope, so the overlay starts from the
// transform the frame began with.
func (v *Visualizer) draw(now float64) {
	v.canvas.Save()
	defer v.canvas.Restore()

	v.run(v.moduleName, v.module, now)
	if v.analyzerEnabled {
		v.run("analyzer", v.overlay, now)
	}
}

// run updates one module. A panicking module only loses its frame.
func (v *Visualizer) run(name string, m Module, now float64) {
	v.canvas.Save()
	defer v.canvas.Restore()
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("module panicked during frame",
				slog.String("module", name),
				slog.Any("panic", r))
		}
	}()

	m.Update(now, v.ctx, v.freqs)
}

func (v *Visualizer) drawFPS(now float64) {
	delta := now - v.lastTime
	if now-v.lastFPSDraw >= fpsInterval && delta > 0 {
		v.lastFPSDraw = now
		v.fps = 1 / delta
	}

	v.canvas.Save()
	defer v.canvas.Restore()
	v.canvas.SetFont(fpsFont)
	v.canvas.SetFillStyle(fpsColor)
	v.canvas.FillText(strconv.Itoa(int(math.Round(v.fps))), v.ctx.Width-fpsOffsetX, fpsOffsetY)
}

func (v *Visualizer) publish(event domain.Event) {
	v.mu.Lock()
	bus := v.bus
	v.mu.Unlock()

	if bus == nil {
		return
	}
	bus.Publish(event)
}

// systemClock reports seconds since the visualizer was created.
type systemClock struct {
	start time.Time
}

func (c systemClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// String describes the current run state for logs and status lines.
func (v *Visualizer) String() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := "stopped"
	if v.active {
		state = "running"
	}
	return fmt.Sprintf("%s [%s] fps=%d analyzer=%t", v.moduleName, state, int(math.Round(v.fps)), v.analyzerEnabled)
}
