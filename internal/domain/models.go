// Package domain contains the core models of GoVis with no external dependencies.
// This package defines the spectrum buffer, tracks and playback state shared by
// the visualizer, the audio adapters and the UI.
package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Track represents an audio file opened by an audio source.
type Track struct {
	// FilePath is the absolute path to the audio file on the filesystem
	FilePath string

	// Title is the song title (from tags or the file name)
	Title string

	// Artist is the performing artist name
	Artist string

	// Album is the album name
	Album string

	// Format is the lower-case file extension without the dot (mp3, flac, ogg, wav)
	Format string

	// SampleRate is the decoded sample rate in Hz
	SampleRate int

	// Channels is the decoded channel count
	Channels int

	// Duration is the total length of the track
	Duration time.Duration
}

// DisplayName returns "Artist - Title" when both are known, otherwise the title or
// the base file name.
func (t Track) DisplayName() string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(t.FilePath), filepath.Ext(t.FilePath))
	}
	if artist := strings.TrimSpace(t.Artist); artist != "" {
		return artist + " - " + title
	}
	return title
}

// PlaybackStatus represents the current state of an audio source.
type PlaybackStatus int

const (
	// StatusStopped indicates nothing is playing
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates playback is paused
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}
