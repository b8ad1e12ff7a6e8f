// Package fyne provides Fyne UI adapter implementations.
// This package implements the window, the frame scheduler and the presenter
// that maps bus events onto the window.
package fyne

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// DisplayState is what the status line shows.
type DisplayState struct {
	Module   string
	Analyzer bool
	FPS      bool
	Running  bool
	Playback domain.PlaybackStatus
}

// String formats the status line, e.g. "circular | analyzer off | fps on | playing".
func (s DisplayState) String() string {
	module := s.Module
	if module == "" {
		module = "no module"
	}
	parts := []string{module, "analyzer " + onOff(s.Analyzer), "fps " + onOff(s.FPS)}
	if !s.Running {
		parts = append(parts, "stopped")
	}
	parts = append(parts, s.Playback.String())
	return strings.Join(parts, " | ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Presenter subscribes to the event bus and keeps the UI in sync with the
// visualizer and playback state.
//
// Thread-safety: All operations are thread-safe via sync.Mutex. ports.UI
// implementations marshal onto the UI thread themselves.
type Presenter struct {
	logger *slog.Logger
	bus    ports.EventBus
	ui     ports.UI

	mu    sync.Mutex
	state DisplayState
	subs  []domain.SubscriptionID
	once  sync.Once
}

// NewPresenter creates a presenter seeded with initial and subscribes it.
func NewPresenter(logger *slog.Logger, bus ports.EventBus, ui ports.UI, initial DisplayState) *Presenter {
	p := &Presenter{
		logger: logger.With(slog.String("component", "presenter")),
		bus:    bus,
		ui:     ui,
		state:  initial,
	}
	p.subscribeToEvents()
	ui.SetStatus(initial.String())
	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := []struct {
		eventType domain.EventType
		handler   domain.EventHandler
	}{
		{domain.EventVisualizerStarted, p.onVisualizerStarted},
		{domain.EventVisualizerStopped, p.onVisualizerStopped},
		{domain.EventModuleChanged, p.onModuleChanged},
		{domain.EventAnalyzerToggled, p.onAnalyzerToggled},
		{domain.EventFPSToggled, p.onFPSToggled},
		{domain.EventTrackLoaded, p.onTrackLoaded},
		{domain.EventTrackStarted, p.onTrackStarted},
		{domain.EventTrackPaused, p.onTrackPaused},
		{domain.EventTrackStopped, p.onTrackEnded},
		{domain.EventTrackCompleted, p.onTrackEnded},
		{domain.EventTrackError, p.onTrackError},
	}

	for _, s := range subscriptions {
		p.subs = append(p.subs, p.bus.Subscribe(s.eventType, s.handler))
	}
}

// update applies fn to the state and pushes the new status line.
func (p *Presenter) update(fn func(*DisplayState)) {
	p.mu.Lock()
	fn(&p.state)
	text := p.state.String()
	p.mu.Unlock()

	p.ui.SetStatus(text)
}

// State returns the current display state.
func (p *Presenter) State() DisplayState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Event handlers

func (p *Presenter) onVisualizerStarted(domain.Event) {
	p.update(func(s *DisplayState) { s.Running = true })
}

func (p *Presenter) onVisualizerStopped(domain.Event) {
	p.update(func(s *DisplayState) { s.Running = false })
}

func (p *Presenter) onModuleChanged(event domain.Event) {
	e, ok := event.(domain.ModuleChangedEvent)
	if !ok {
		return
	}
	p.update(func(s *DisplayState) { s.Module = e.Module })
}

func (p *Presenter) onAnalyzerToggled(event domain.Event) {
	e, ok := event.(domain.AnalyzerToggledEvent)
	if !ok {
		return
	}
	p.update(func(s *DisplayState) { s.Analyzer = e.Enabled })
}

func (p *Presenter) onFPSToggled(event domain.Event) {
	e, ok := event.(domain.FPSToggledEvent)
	if !ok {
		return
	}
	p.update(func(s *DisplayState) { s.FPS = e.Visible })
}

func (p *Presenter) onTrackLoaded(event domain.Event) {
	e, ok := event.(domain.TrackLoadedEvent)
	if !ok {
		return
	}
	p.ui.SetTrackInfo(e.Track)
	p.update(func(s *DisplayState) { s.Playback = domain.StatusStopped })
}

func (p *Presenter) onTrackStarted(domain.Event) {
	p.update(func(s *DisplayState) { s.Playback = domain.StatusPlaying })
}

func (p *Presenter) onTrackPaused(domain.Event) {
	p.update(func(s *DisplayState) { s.Playback = domain.StatusPaused })
}

func (p *Presenter) onTrackEnded(domain.Event) {
	p.ui.ClearTrackInfo()
	p.update(func(s *DisplayState) { s.Playback = domain.StatusStopped })
}

func (p *Presenter) onTrackError(event domain.Event) {
	e, ok := event.(domain.TrackErrorEvent)
	if !ok {
		return
	}
	p.logger.Debug("showing track error", slog.String("path", e.Path))
	p.ui.ShowError("Playback error", fmt.Errorf("%s: %w", e.Path, e.Error))
}

// Shutdown unsubscribes the presenter. It is safe to call multiple times.
func (p *Presenter) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		subs := p.subs
		p.subs = nil
		p.mu.Unlock()

		for _, id := range subs {
			p.bus.Unsubscribe(id)
		}
		p.logger.Debug("presenter shut down")
	})
}
