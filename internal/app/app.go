// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/govis/internal/adapter/audio/analyser"
	"github.com/tejashwikalptaru/govis/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/govis/internal/adapter/audio/player"
	"github.com/tejashwikalptaru/govis/internal/adapter/canvas/raster"
	"github.com/tejashwikalptaru/govis/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/govis/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/govis/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/govis/internal/config"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/internal/service"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
	"github.com/tejashwikalptaru/govis/internal/visualizer/modules"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	// Core dependencies
	config  Config
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus ports.EventBus
	source   ports.AudioSource
	surface  *raster.Canvas
	animator *fyneui.Animator

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Core and services
	vis               *visualizer.Visualizer
	visualizerService *service.VisualizerService
	playbackService   *service.PlaybackService

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
	shutdownErr  error
}

// AnalyzerTuning adjusts the analyzer overlay.
type AnalyzerTuning struct {
	BarWidth   float64
	Spacing    float64
	Threshold  float64
	SampleRate float64
}

// Overrides are explicit command-line choices. They win over saved preferences.
type Overrides struct {
	Module   string
	Analyzer bool
	NoFPS    bool
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// Analyser settings
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64

	// SampleRate fixes the audio output rate; zero follows the first track
	SampleRate int

	// Window is the main window geometry
	Window fyneui.WindowOptions

	// Module is selected when no preference is saved
	Module string

	// ShowFPS and ShowAnalyzer are the overlay flags used when preferences
	// are not remembered
	ShowFPS      bool
	ShowAnalyzer bool

	// Autostart starts the frame loop on launch
	Autostart bool

	// Remember restores and saves the display preferences
	Remember bool

	// File is opened and played on launch when set
	File string

	// Modules holds the module options
	Modules modules.Settings

	// Analyzer tunes the overlay
	Analyzer AnalyzerTuning

	// Overrides are applied last
	Overrides Overrides

	// UseMockAudio determines whether to use a mock audio source (for testing)
	UseMockAudio bool

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return FromFile(config.Default())
}

// FromFile builds the application configuration from a loaded config file.
func FromFile(c *config.Config) Config {
	level, ok := logger.ParseLevel(c.Log.Level)
	if !ok {
		level = slog.LevelInfo
	}

	settings := modules.DefaultSettings()
	settings.Circular.Amount = c.Circular.Amount
	settings.Circular.Inward = c.Circular.Inward
	settings.Circular.TotalAngle = c.Circular.TotalAngle
	settings.Circular.AutoRotate = c.Circular.AutoRotate
	settings.Circular.PrimaryColor = c.Circular.PrimaryColor
	settings.Circular.SecondaryColor = c.Circular.SecondaryColor
	settings.Circular.Background = c.Circular.Background
	settings.Spectrum.Bars = c.Spectrum.Bars
	settings.Spectrum.PrimaryColor = c.Spectrum.PrimaryColor
	settings.Spectrum.SecondaryColor = c.Spectrum.SecondaryColor
	settings.Spectrum.CapColor = c.Spectrum.CapColor
	settings.Spectrum.Background = c.Spectrum.Background

	return Config{
		AppID:       "com.govis.app",
		AppName:     "GoVis",
		LogLevel:    level,
		LogFormat:   c.Log.Format,
		FFTSize:     c.Audio.FFTSize,
		Smoothing:   c.Audio.Smoothing,
		MinDecibels: c.Audio.MinDecibels,
		MaxDecibels: c.Audio.MaxDecibels,
		SampleRate:  c.Audio.SampleRate,
		Window: fyneui.WindowOptions{
			Title:      "GoVis",
			Width:      c.Window.Width,
			Height:     c.Window.Height,
			Fullscreen: c.Window.Fullscreen,
		},
		Module:       c.Visualizer.Module,
		ShowFPS:      c.Visualizer.ShowFPS,
		ShowAnalyzer: c.Visualizer.ShowAnalyzer,
		Autostart:    c.Visualizer.Autostart,
		Remember:     c.Visualizer.Remember,
		Modules:      settings,
		Analyzer: AnalyzerTuning{
			BarWidth:   c.Analyzer.BarWidth,
			Spacing:    c.Analyzer.Spacing,
			Threshold:  c.Analyzer.Threshold,
			SampleRate: c.Analyzer.SampleRate,
		},
	}
}

// newAnalyser builds the spectrum analyser described by cfg.
func newAnalyser(cfg Config) (*analyser.Analyser, error) {
	a, err := analyser.NewAnalyser(cfg.FFTSize)
	if err != nil {
		return nil, err
	}
	if err := a.SetSmoothing(cfg.Smoothing); err != nil {
		return nil, err
	}
	if err := a.SetDecibelRange(cfg.MinDecibels, cfg.MaxDecibels); err != nil {
		return nil, err
	}
	return a, nil
}

// tuneAnalyzer applies the overlay settings. The loop must be stopped.
func tuneAnalyzer(a *visualizer.Analyzer, t AnalyzerTuning) {
	if t.BarWidth > 0 {
		a.BarWidth = t.BarWidth
	}
	if t.Spacing > 0 {
		a.Spacing = t.Spacing
	}
	if t.Threshold > 0 {
		a.Threshold = t.Threshold
	}
	if t.SampleRate > 0 {
		a.SampleRate = t.SampleRate
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (*Application, error) {
	app := &Application{config: cfg}

	// Step 1: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 3: Create an event bus
	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	// Step 4: Create the audio source and its analyser
	if cfg.UseMockAudio {
		src := mock.NewSource(cfg.FFTSize)
		src.SetLogger(app.logger.With(slog.String("source", "mock")))
		app.source = src
	} else {
		a, err := newAnalyser(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create analyser: %w", err)
		}
		app.source = player.New(app.logger, a, player.Options{SampleRate: cfg.SampleRate})
	}

	// Step 5: Create repositories
	if cfg.Remember {
		app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())
	}

	// Step 6: Create the drawing surface, frame scheduler and visualizer
	surface, err := raster.New(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	surface.SetLogger(app.logger.With(slog.String("component", "raster")))
	app.surface = surface

	app.animator = fyneui.NewAnimator(func() {
		if app.mainWindow != nil {
			app.mainWindow.Refresh()
		}
	})

	app.vis = visualizer.New(app.logger, surface, app.source.Analyser(), app.animator)
	app.vis.SetEventBus(app.eventBus)
	tuneAnalyzer(app.vis.Analyzer(), cfg.Analyzer)

	// Step 7: Create services (with dependency injection)
	registry := modules.NewRegistry(cfg.Modules)
	app.visualizerService = service.NewVisualizerService(app.logger, app.vis, registry, app.preferencesRepo)
	app.playbackService = service.NewPlaybackService(app.logger, app.source, app.eventBus, app.preferencesRepo)

	// Step 8: Create UI
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, surface, app.logger, cfg.Window)
	app.mainWindow.SetHandlers(fyneui.Handlers{
		ToggleRunning:  func() { app.visualizerService.ToggleRunning() },
		ToggleAnalyzer: func() { app.visualizerService.ToggleAnalyzer() },
		ToggleFPS:      func() { app.visualizerService.ToggleFPS() },
		NextModule: func() {
			if _, err := app.visualizerService.NextModule(); err != nil {
				app.logger.Warn("failed to switch module", slog.Any("error", err))
			}
		},
		TogglePause: func() {
			if err := app.playbackService.TogglePause(); err != nil && !errors.Is(err, domain.ErrNoTrackLoaded) {
				app.mainWindow.ShowError("Playback error", err)
			}
		},
		OpenFile: func(path string) {
			// Failures reach the window through the TrackError event.
			_, _ = app.playbackService.OpenAndPlay(path)
		},
	})

	// Step 9: Restore the display state
	if err := app.restoreState(); err != nil {
		// Non-fatal - just log and continue
		app.logger.Warn("failed to restore visualizer state", slog.Any("error", err))
	}

	// Step 10: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(app.logger, app.eventBus, app.mainWindow, fyneui.DisplayState{
		Module:   app.vis.ModuleName(),
		Analyzer: app.vis.AnalyzerEnabled(),
		FPS:      app.vis.FPSVisible(),
		Running:  app.vis.IsActive(),
		Playback: app.source.Status(),
	})

	app.fyneApp.Lifecycle().SetOnStarted(app.onStarted)

	return app, nil
}

// restoreState selects the starting module and overlay flags:
// configuration, then saved preferences, then command-line overrides.
func (a *Application) restoreState() error {
	a.vis.SetFPSVisible(a.config.ShowFPS)
	a.vis.SetAnalyzerEnabled(a.config.ShowAnalyzer)

	var err error
	if a.config.Remember {
		err = a.visualizerService.RestorePreferences(a.config.Module)
	} else if a.config.Module != "" {
		err = a.visualizerService.UseModule(a.config.Module)
	}

	o := a.config.Overrides
	if o.Module != "" {
		err = a.visualizerService.UseModule(o.Module)
	}
	if o.Analyzer {
		a.vis.SetAnalyzerEnabled(true)
	}
	if o.NoFPS {
		a.vis.SetFPSVisible(false)
	}
	return err
}

// onStarted runs once the Fyne event loop is up.
func (a *Application) onStarted() {
	a.animator.Start()

	if a.config.Autostart {
		a.visualizerService.Start()
	}

	if a.config.File != "" {
		if _, err := a.playbackService.OpenAndPlay(a.config.File); err != nil {
			// Non-fatal - the window shows the error
			a.logger.Warn("failed to play startup file", slog.String("path", a.config.File), slog.Any("error", err))
		}
	}
}

// Run starts the application.
// This is called from main after the application is created; it blocks
// until the window is closed.
func (a *Application) Run() {
	a.logger.Info("GoVis started", slog.String("module", a.vis.ModuleName()))
	a.mainWindow.ShowAndRun()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		var errs []error
		if a.presenter != nil {
			a.presenter.Shutdown()
		}
		a.vis.Stop()
		a.animator.Stop()

		if err := a.playbackService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown playback service", slog.Any("error", err))
			errs = append(errs, err)
		}
		if err := a.source.Close(); err != nil {
			a.logger.Warn("failed to close audio source", slog.Any("error", err))
			errs = append(errs, err)
		}
		if err := a.eventBus.Close(); err != nil && !errors.Is(err, eventbus.ErrClosed) {
			errs = append(errs, err)
		}

		a.shutdownErr = errors.Join(errs...)
		a.logger.Info("application shutdown complete")
	})
	return a.shutdownErr
}

// GetServices returns the application services.
func (a *Application) GetServices() (*service.VisualizerService, *service.PlaybackService) {
	return a.visualizerService, a.playbackService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetVisualizer returns the visualizer.
func (a *Application) GetVisualizer() *visualizer.Visualizer {
	return a.vis
}
