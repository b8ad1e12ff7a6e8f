package fyne

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/govis/internal/adapter/canvas/raster"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/res"
)

// Handlers are the user commands the window forwards. Nil handlers are ignored.
type Handlers struct {
	ToggleRunning  func()
	ToggleAnalyzer func()
	ToggleFPS      func()
	NextModule     func()
	TogglePause    func()
	OpenFile       func(path string)
}

// WindowOptions configures the main window.
type WindowOptions struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// MainWindow shows the raster canvas the visualizer draws on, with a status
// line underneath. It implements ports.UI.
//
// The MainWindow is a "dumb view": key presses and menu actions go to the
// Handlers, state changes arrive from the Presenter.
type MainWindow struct {
	app     fyneapp.App
	window  fyneapp.Window
	logger  *slog.Logger
	title   string
	surface *raster.Canvas

	display *canvas.Raster
	status  *widget.Label

	mu       sync.RWMutex
	handlers Handlers

	closeOnce sync.Once
}

var _ ports.UI = (*MainWindow)(nil)

// NewMainWindow creates the window around surface.
func NewMainWindow(app fyneapp.App, surface *raster.Canvas, logger *slog.Logger, opts WindowOptions) *MainWindow {
	w := &MainWindow{
		app:     app,
		logger:  logger.With(slog.String("component", "window")),
		title:   opts.Title,
		surface: surface,
	}

	w.window = app.NewWindow(opts.Title)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(float32(opts.Width), float32(opts.Height)))
	w.window.SetFullScreen(opts.Fullscreen)
	w.window.Canvas().SetOnTypedKey(w.onKey)

	return w
}

// SetHandlers installs the user command handlers.
func (w *MainWindow) SetHandlers(h Handlers) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = h
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	w.display = canvas.NewRaster(w.render)
	w.display.ScaleMode = canvas.ImageScaleFastest

	w.status = widget.NewLabel("")
	w.status.TextStyle = fyneapp.TextStyle{Monospace: true}
	w.status.Truncation = fyneapp.TextTruncateEllipsis

	w.window.SetContent(container.NewBorder(nil, w.status, nil, nil, w.display))
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// render hands Fyne the latest frame, resizing the surface to the raster's
// pixel size first. The new size takes effect on the next visualizer frame.
func (w *MainWindow) render(width, height int) image.Image {
	w.surface.Resize(width, height)
	return w.surface.Snapshot()
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	separator := fyneapp.NewMenuItemSeparator()

	openFile := fyneapp.NewMenuItem("Open", w.handleOpenFile)
	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})
	fileMenu := fyneapp.NewMenu("File", openFile, separator, exitMenu)

	viewMenu := fyneapp.NewMenu("View",
		fyneapp.NewMenuItem("Start / Stop", func() { w.dispatch(func(h Handlers) func() { return h.ToggleRunning }) }),
		fyneapp.NewMenuItem("Next Module", func() { w.dispatch(func(h Handlers) func() { return h.NextModule }) }),
		separator,
		fyneapp.NewMenuItem("Analyzer Overlay", func() { w.dispatch(func(h Handlers) func() { return h.ToggleAnalyzer }) }),
		fyneapp.NewMenuItem("FPS Counter", func() { w.dispatch(func(h Handlers) func() { return h.ToggleFPS }) }),
	)

	helpMenu := fyneapp.NewMenu("Help", fyneapp.NewMenuItem("About", func() {
		dialog.ShowCustom("About "+w.title, "Close", widget.NewRichTextFromMarkdown(res.AboutContent), w.window)
	}))

	return []*fyneapp.Menu{fileMenu, viewMenu, helpMenu}
}

// dispatch runs the handler pick selects, if set.
func (w *MainWindow) dispatch(pick func(Handlers) func()) {
	w.mu.RLock()
	fn := pick(w.handlers)
	w.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// onKey maps the keyboard shortcuts.
func (w *MainWindow) onKey(ev *fyneapp.KeyEvent) {
	switch ev.Name {
	case fyneapp.KeySpace:
		w.dispatch(func(h Handlers) func() { return h.ToggleRunning })
	case fyneapp.KeyA:
		w.dispatch(func(h Handlers) func() { return h.ToggleAnalyzer })
	case fyneapp.KeyF:
		w.dispatch(func(h Handlers) func() { return h.ToggleFPS })
	case fyneapp.KeyN:
		w.dispatch(func(h Handlers) func() { return h.NextModule })
	case fyneapp.KeyP:
		w.dispatch(func(h Handlers) func() { return h.TogglePause })
	case fyneapp.KeyO:
		w.handleOpenFile()
	}
}

// handleOpenFile handles the "Open" menu action.
func (w *MainWindow) handleOpenFile() {
	w.mu.RLock()
	open := w.handlers.OpenFile
	w.mu.RUnlock()
	if open == nil {
		return
	}

	NewFileDialog(w.window, open, w.logger).Show()
}

// Refresh repaints the raster with the latest frame.
func (w *MainWindow) Refresh() {
	w.display.Refresh()
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// SetOnClosed registers fn to run when the window closes.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// Close closes the window. It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// ports.UI implementation

// SetTrackInfo shows the track in the window title.
func (w *MainWindow) SetTrackInfo(track domain.Track) {
	title := fmt.Sprintf("%s - %s", w.title, track.DisplayName())
	fyneapp.Do(func() {
		w.window.SetTitle(title)
	})
}

// ClearTrackInfo resets the window title.
func (w *MainWindow) ClearTrackInfo() {
	fyneapp.Do(func() {
		w.window.SetTitle(w.title)
	})
}

// SetStatus updates the status line.
func (w *MainWindow) SetStatus(text string) {
	fyneapp.Do(func() {
		w.status.SetText(text)
	})
}

// ShowError shows err in a dialog.
func (w *MainWindow) ShowError(title string, err error) {
	w.logger.Warn(title, slog.Any("error", err))
	fyneapp.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %w", title, err), w.window)
	})
}
