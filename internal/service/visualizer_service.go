package service

import (
	"errors"
	"log/slog"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
	"github.com/tejashwikalptaru/govis/internal/visualizer/modules"
)

// VisualizerService selects modules from the registry, runs the frame loop
// and persists the display preferences.
type VisualizerService struct {
	logger   *slog.Logger
	vis      *visualizer.Visualizer
	registry *modules.Registry
	prefs    ports.PreferencesRepository
}

// NewVisualizerService creates a visualizer service. prefs may be nil.
func NewVisualizerService(
	logger *slog.Logger,
	vis *visualizer.Visualizer,
	registry *modules.Registry,
	prefs ports.PreferencesRepository,
) *VisualizerService {
	return &VisualizerService{
		logger:   logger.With(slog.String("component", "visualizer-service")),
		vis:      vis,
		registry: registry,
		prefs:    prefs,
	}
}

// UseModule activates the registered module name and remembers the choice.
func (s *VisualizerService) UseModule(name string) error {
	factory, err := s.registry.Factory(name)
	if err != nil {
		return domain.NewServiceError("VisualizerService", "UseModule", "cannot select module", err)
	}

	s.vis.UseModule(name, factory)
	s.logger.Info("module selected", slog.String("module", name))

	if s.prefs != nil {
		if err := s.prefs.SaveModule(name); err != nil {
			s.logger.Warn("failed to save module preference", slog.Any("error", err))
		}
	}
	return nil
}

// NextModule cycles to the module registered after the active one.
func (s *VisualizerService) NextModule() (modules.Type, error) {
	next := s.registry.Next(s.vis.ModuleName())
	if next == "" {
		return "", domain.NewServiceError("VisualizerService", "NextModule", "no modules registered", domain.ErrUnknownModule)
	}
	return next, s.UseModule(string(next))
}

// Modules lists the registered modules.
func (s *VisualizerService) Modules() []modules.Info {
	return s.registry.Types()
}

// Start starts the frame loop.
func (s *VisualizerService) Start() {
	s.vis.Start()
}

// Stop stops the frame loop and clears the canvas.
func (s *VisualizerService) Stop() {
	s.vis.Stop()
}

// ToggleRunning starts a stopped loop or stops a running one and reports
// whether it is running afterwards.
func (s *VisualizerService) ToggleRunning() bool {
	if s.vis.IsActive() {
		s.vis.Stop()
		return false
	}
	s.vis.Start()
	return true
}

// ToggleAnalyzer flips the analyzer overlay and remembers the new state.
func (s *VisualizerService) ToggleAnalyzer() bool {
	enabled := s.vis.ToggleAnalyzer()
	if s.prefs != nil {
		if err := s.prefs.SaveAnalyzerEnabled(enabled); err != nil {
			s.logger.Warn("failed to save analyzer preference", slog.Any("error", err))
		}
	}
	return enabled
}

// ToggleFPS flips the FPS counter and remembers the new state.
func (s *VisualizerService) ToggleFPS() bool {
	visible := s.vis.ToggleFPS()
	if s.prefs != nil {
		if err := s.prefs.SaveFPSVisible(visible); err != nil {
			s.logger.Warn("failed to save fps preference", slog.Any("error", err))
		}
	}
	return visible
}

// RestorePreferences applies the saved module and overlay flags. fallback is
// used when no module is saved or the saved one is no longer registered.
// Preference read failures are logged and skipped.
func (s *VisualizerService) RestorePreferences(fallback string) error {
	module := fallback
	if s.prefs != nil {
		if saved, err := s.prefs.LoadModule(); err != nil {
			s.logger.Warn("failed to load module preference", slog.Any("error", err))
		} else if saved != "" {
			module = saved
		}

		if enabled, err := s.prefs.LoadAnalyzerEnabled(); err == nil {
			s.vis.SetAnalyzerEnabled(enabled)
		} else {
			s.logger.Warn("failed to load analyzer preference", slog.Any("error", err))
		}

		if visible, err := s.prefs.LoadFPSVisible(); err == nil {
			s.vis.SetFPSVisible(visible)
		} else {
			s.logger.Warn("failed to load fps preference", slog.Any("error", err))
		}
	}

	if module == "" {
		return nil
	}
	err := s.UseModule(module)
	if errors.Is(err, domain.ErrUnknownModule) && module != fallback && fallback != "" {
		s.logger.Warn("saved module no longer registered", slog.String("module", module))
		return s.UseModule(fallback)
	}
	return err
}

// Visualizer returns the underlying visualizer.
func (s *VisualizerService) Visualizer() *visualizer.Visualizer {
	return s.vis
}
