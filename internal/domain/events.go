// Package domain defines events for the event-driven architecture.
// Events let the visualizer, the playback service and the UI react to each other
// without holding references in both directions.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Visualizer events
	EventVisualizerStarted EventType = "visualizer.started"
	EventVisualizerStopped EventType = "visualizer.stopped"
	EventModuleChanged     EventType = "visualizer.module_changed"
	EventAnalyzerToggled   EventType = "visualizer.analyzer_toggled"
	EventFPSToggled        EventType = "visualizer.fps_toggled"

	// Playback events
	EventTrackLoaded    EventType = "track.loaded"
	EventTrackStarted   EventType = "track.started"
	EventTrackPaused    EventType = "track.paused"
	EventTrackStopped   EventType = "track.stopped"
	EventTrackCompleted EventType = "track.completed"
	EventTrackError     EventType = "track.error"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// VisualizerStartedEvent is published when the frame loop is started.
type VisualizerStartedEvent struct {
	baseEvent
	Module string
}

// Type returns the event type.
func (e VisualizerStartedEvent) Type() EventType {
	return EventVisualizerStarted
}

// NewVisualizerStartedEvent creates a new VisualizerStartedEvent.
func NewVisualizerStartedEvent(module string) VisualizerStartedEvent {
	return VisualizerStartedEvent{
		baseEvent: newBaseEvent(),
		Module:    module,
	}
}

// VisualizerStoppedEvent is published when the frame loop is stopped.
type VisualizerStoppedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e VisualizerStoppedEvent) Type() EventType {
	return EventVisualizerStopped
}

// NewVisualizerStoppedEvent creates a new VisualizerStoppedEvent.
func NewVisualizerStoppedEvent() VisualizerStoppedEvent {
	return VisualizerStoppedEvent{baseEvent: newBaseEvent()}
}

// ModuleChangedEvent is published when a different module becomes active.
type ModuleChangedEvent struct {
	baseEvent
	Previous string
	Module   string
}

// Type returns the event type.
func (e ModuleChangedEvent) Type() EventType {
	return EventModuleChanged
}

// NewModuleChangedEvent creates a new ModuleChangedEvent.
func NewModuleChangedEvent(previous, module string) ModuleChangedEvent {
	return ModuleChangedEvent{
		baseEvent: newBaseEvent(),
		Previous:  previous,
		Module:    module,
	}
}

// AnalyzerToggledEvent is published when the analyzer overlay is shown or hidden.
type AnalyzerToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e AnalyzerToggledEvent) Type() EventType {
	return EventAnalyzerToggled
}

// NewAnalyzerToggledEvent creates a new AnalyzerToggledEvent.
func NewAnalyzerToggledEvent(enabled bool) AnalyzerToggledEvent {
	return AnalyzerToggledEvent{
		baseEvent: newBaseEvent(),
		Enabled:   enabled,
	}
}

// FPSToggledEvent is published when the FPS counter is shown or hidden.
type FPSToggledEvent struct {
	baseEvent
	Visible bool
}

// Type returns the event type.
func (e FPSToggledEvent) Type() EventType {
	return EventFPSToggled
}

// NewFPSToggledEvent creates a new FPSToggledEvent.
func NewFPSToggledEvent(visible bool) FPSToggledEvent {
	return FPSToggledEvent{
		baseEvent: newBaseEvent(),
		Visible:   visible,
	}
}

// TrackLoadedEvent is published when a track is opened and ready to play.
type TrackLoadedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType {
	return EventTrackLoaded
}

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track Track) TrackLoadedEvent {
	return TrackLoadedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackStartedEvent is published when playback starts or resumes.
type TrackStartedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType {
	return EventTrackStarted
}

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track Track) TrackStartedEvent {
	return TrackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType {
	return EventTrackPaused
}

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track Track) TrackPausedEvent {
	return TrackPausedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackStoppedEvent is published when playback is stopped.
type TrackStoppedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType {
	return EventTrackStopped
}

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(track Track) TrackStoppedEvent {
	return TrackStoppedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackCompletedEvent is published when a track finishes playing naturally.
type TrackCompletedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackCompletedEvent) Type() EventType {
	return EventTrackCompleted
}

// NewTrackCompletedEvent creates a new TrackCompletedEvent.
func NewTrackCompletedEvent(track Track) TrackCompletedEvent {
	return TrackCompletedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackErrorEvent is published when a track cannot be opened or played.
type TrackErrorEvent struct {
	baseEvent
	Path  string
	Error error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(path string, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
		Error:     err,
	}
}
