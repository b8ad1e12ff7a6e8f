package mock

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Source is a mock implementation of the AudioSource interface.
// It simulates playback in memory; tests end a track with Finish.
//
// Thread-safety: This implementation is thread-safe.
type Source struct {
	logger   *slog.Logger
	analyser *Analyser

	mu     sync.Mutex
	track  *domain.Track
	status domain.PlaybackStatus
	done   chan struct{}
	closed bool

	// Behavior configuration (for testing error scenarios)
	failLoad bool
	failPlay bool
}

// NewSource creates a mock source backed by a scripted analyser.
func NewSource(fftSize int) *Source {
	return &Source{
		analyser: NewAnalyser(fftSize),
		done:     make(chan struct{}),
	}
}

// SetLogger sets the logger for this source.
func (s *Source) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetFailLoad configures the mock to fail loading tracks (for testing).
func (s *Source) SetFailLoad(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLoad = fail
}

// SetFailPlay configures the mock to fail starting playback (for testing).
func (s *Source) SetFailPlay(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPlay = fail
}

// MockAnalyser returns the scripted analyser for direct level control.
func (s *Source) MockAnalyser() *Analyser {
	return s.analyser
}

// Load pretends to open a file. The track is described from its name.
func (s *Source) Load(filePath string) (domain.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Track{}, domain.ErrNotInitialized
	}
	if filePath == "" {
		return domain.Track{}, domain.ErrInvalidFilePath
	}
	if s.failLoad {
		return domain.Track{}, domain.NewAudioSourceError("load", filePath, "mock load failure", nil)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	track := domain.Track{
		FilePath:   filePath,
		Title:      strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)),
		Format:     ext,
		SampleRate: 44100,
		Channels:   2,
		Duration:   3 * time.Minute,
	}

	s.track = &track
	s.status = domain.StatusStopped
	s.done = make(chan struct{})

	if s.logger != nil {
		s.logger.Debug("mock track loaded", slog.String("path", filePath))
	}
	return track, nil
}

func (s *Source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.track == nil {
		return domain.ErrNoTrackLoaded
	}
	if s.failPlay {
		return fmt.Errorf("mock play failure: %w", domain.NewAudioSourceError("play", s.track.FilePath, "device unavailable", nil))
	}
	s.status = domain.StatusPlaying
	return nil
}

func (s *Source) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.track == nil {
		return domain.ErrNoTrackLoaded
	}
	if s.status == domain.StatusPlaying {
		s.status = domain.StatusPaused
	}
	return nil
}

func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.track == nil {
		return domain.ErrNoTrackLoaded
	}
	s.track = nil
	s.status = domain.StatusStopped
	return nil
}

func (s *Source) Status() domain.PlaybackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Source) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Finish simulates the current track reaching its end.
func (s *Source) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.track == nil {
		return
	}
	s.status = domain.StatusStopped
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Source) Analyser() ports.SpectrumAnalyser {
	return s.analyser
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.track = nil
	return nil
}

// Verify interface implementation at compile time.
var _ ports.AudioSource = (*Source)(nil)
