// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the window without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/govis/internal/domain"
)

// UI is the interface for the user interface layer.
//
// The presenter receives events from the event bus and calls these methods to
// update the window. Thread-safety: implementations marshal onto the UI thread
// themselves, so the presenter may call them from any goroutine.
type UI interface {
	// SetTrackInfo shows the loaded track (usually in the window title).
	SetTrackInfo(track domain.Track)

	// ClearTrackInfo resets the track display after playback stops.
	ClearTrackInfo()

	// SetStatus shows a short status line (active module, overlay flags).
	SetStatus(text string)

	// ShowError reports an error to the user.
	ShowError(title string, err error)
}
