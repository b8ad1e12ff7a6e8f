// Package ports define interfaces for dependency inversion.
// These interfaces allow the visualizer core to remain independent of the audio
// libraries, the raster backend and the windowing toolkit.
package ports

import (
	"github.com/tejashwikalptaru/govis/internal/domain"
)

// SpectrumAnalyser is the audio collaborator the visualizer pulls spectra from.
// It mirrors an analyser node: configured once with an FFT window size, it
// exposes FFTSize/2 frequency bins.
//
// Implementations must be thread-safe: samples usually arrive on the playback
// goroutine while ByteFrequencyData is called from the frame loop.
type SpectrumAnalyser interface {
	// FFTSize returns the configured FFT window size.
	FFTSize() int

	// FrequencyBinCount returns FFTSize()/2.
	FrequencyBinCount() int

	// ByteFrequencyData fills dst with the current per-bin magnitudes in [0,255].
	// Only min(len(dst), FrequencyBinCount()) entries are written.
	ByteFrequencyData(dst []byte)
}

// AudioSource plays audio files and feeds what it plays into a SpectrumAnalyser.
//
// Implementations must be thread-safe as they may be called from UI callbacks
// and service goroutines.
type AudioSource interface {
	// Load opens the file at filePath, replacing any previously loaded track.
	// The track is not started.
	//
	// Returns the track description or an error if the file cannot be decoded.
	Load(filePath string) (domain.Track, error)

	// Play starts or resumes playback of the loaded track.
	//
	// Returns domain.ErrNoTrackLoaded when nothing is loaded.
	Play() error

	// Pause pauses playback, keeping the position.
	Pause() error

	// Stop stops playback and releases the loaded track.
	Stop() error

	// Status returns the playback status of the loaded track.
	Status() domain.PlaybackStatus

	// Done returns a channel closed when the current track reaches its end.
	// A new channel is created by every Load.
	Done() <-chan struct{}

	// Analyser returns the analyser fed by this source.
	Analyser() SpectrumAnalyser

	// Close releases all resources. The source cannot be used afterwards.
	Close() error
}
