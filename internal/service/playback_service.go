// Package service provides the application logic of GoVis: choosing and
// toggling visualizer modules and driving playback of the opened track.
package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// PlaybackService orchestrates the audio source: it opens tracks, starts and
// pauses them and reports completion on the event bus.
// All operations are thread-safe via sync.RWMutex.
type PlaybackService struct {
	// Dependencies (injected)
	logger *slog.Logger
	source ports.AudioSource
	bus    ports.EventBus
	prefs  ports.PreferencesRepository

	// State
	currentTrack *domain.Track

	// Concurrency control
	mu        sync.RWMutex
	watchStop chan struct{}
	watchWg   sync.WaitGroup
}

// NewPlaybackService creates a new playback service. prefs may be nil, in
// which case the last opened file is not remembered.
func NewPlaybackService(
	logger *slog.Logger,
	source ports.AudioSource,
	bus ports.EventBus,
	prefs ports.PreferencesRepository,
) *PlaybackService {
	s := &PlaybackService{
		logger: logger.With(slog.String("component", "playback")),
		source: source,
		bus:    bus,
		prefs:  prefs,
	}
	s.logger.Debug("playback service initialized")
	return s
}

// Open loads the file at path, replacing the current track. The track is not
// started.
func (s *PlaybackService) Open(path string) (domain.Track, error) {
	s.stopWatcher()

	s.logger.Debug("opening track", slog.String("file_path", path))

	s.mu.Lock()
	track, err := s.source.Load(path)
	if err != nil {
		s.currentTrack = nil
		s.mu.Unlock()

		s.logger.Warn("failed to open track", slog.String("file_path", path), slog.Any("error", err))
		s.bus.Publish(domain.NewTrackErrorEvent(path, err))
		return domain.Track{}, err
	}
	s.currentTrack = &track
	s.startWatcher(track, s.source.Done())
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SaveLastFile(path); err != nil {
			s.logger.Warn("failed to save last file", slog.Any("error", err))
		}
	}

	s.bus.Publish(domain.NewTrackLoadedEvent(track))
	return track, nil
}

// OpenAndPlay opens path and starts it.
func (s *PlaybackService) OpenAndPlay(path string) (domain.Track, error) {
	track, err := s.Open(path)
	if err != nil {
		return track, err
	}
	return track, s.Play()
}

// Play starts or resumes the current track.
func (s *PlaybackService) Play() error {
	s.mu.Lock()
	if s.currentTrack == nil {
		s.mu.Unlock()
		return domain.ErrNoTrackLoaded
	}
	track := *s.currentTrack
	if s.source.Status() == domain.StatusPlaying {
		s.mu.Unlock()
		return nil
	}
	err := s.source.Play()
	s.mu.Unlock()

	if err != nil {
		s.bus.Publish(domain.NewTrackErrorEvent(track.FilePath, err))
		return err
	}
	s.bus.Publish(domain.NewTrackStartedEvent(track))
	return nil
}

// Pause pauses the current track.
func (s *PlaybackService) Pause() error {
	s.mu.Lock()
	if s.currentTrack == nil {
		s.mu.Unlock()
		return domain.ErrNoTrackLoaded
	}
	track := *s.currentTrack
	if s.source.Status() != domain.StatusPlaying {
		s.mu.Unlock()
		return nil
	}
	err := s.source.Pause()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.bus.Publish(domain.NewTrackPausedEvent(track))
	return nil
}

// TogglePause pauses a playing track and resumes any other.
func (s *PlaybackService) TogglePause() error {
	if s.Status() == domain.StatusPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Stop stops playback and releases the current track.
func (s *PlaybackService) Stop() error {
	s.stopWatcher()
	return s.stopTrack()
}

// stopTrack releases the current track and publishes TrackStopped.
func (s *PlaybackService) stopTrack() error {
	s.mu.Lock()
	if s.currentTrack == nil {
		s.mu.Unlock()
		return nil
	}
	track := *s.currentTrack
	s.currentTrack = nil
	err := s.source.Stop()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.bus.Publish(domain.NewTrackStoppedEvent(track))
	return nil
}

// CurrentTrack returns the loaded track, if any.
func (s *PlaybackService) CurrentTrack() (domain.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentTrack == nil {
		return domain.Track{}, false
	}
	return *s.currentTrack, true
}

// Status returns the playback status of the audio source.
func (s *PlaybackService) Status() domain.PlaybackStatus {
	return s.source.Status()
}

// LastFile returns the most recently opened file from preferences.
func (s *PlaybackService) LastFile() string {
	if s.prefs == nil {
		return ""
	}
	path, err := s.prefs.LoadLastFile()
	if err != nil {
		s.logger.Warn("failed to load last file", slog.Any("error", err))
		return ""
	}
	return path
}

// Shutdown stops playback and waits for the completion watcher to exit.
// It must not be called from a TrackCompleted handler.
func (s *PlaybackService) Shutdown() error {
	s.stopWatcher()
	s.watchWg.Wait()
	return s.stopTrack()
}

// startWatcher publishes TrackCompleted when done closes. Caller must hold s.mu.
func (s *PlaybackService) startWatcher(track domain.Track, done <-chan struct{}) {
	stop := make(chan struct{})
	s.watchStop = stop
	s.watchWg.Add(1)

	go func() {
		defer s.watchWg.Done()

		select {
		case <-stop:
		case <-done:
			s.logger.Info("track completed", slog.String("file_path", track.FilePath))
			s.bus.Publish(domain.NewTrackCompletedEvent(track))
		}
	}()
}

// stopWatcher signals the completion watcher of the current track to exit.
func (s *PlaybackService) stopWatcher() {
	s.mu.Lock()
	stop := s.watchStop
	s.watchStop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}
