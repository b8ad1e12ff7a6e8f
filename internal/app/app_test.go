package app

import (
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/config"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/testutil"
)

func newTestConfig() Config {
	cfg := DefaultConfig()
	cfg.UseMockAudio = true
	cfg.TestFyneApp = test.NewApp()
	return cfg
}

func TestNewApplication(t *testing.T) {
	app, err := NewApplication(newTestConfig())
	require.NoError(t, err)
	require.NotNil(t, app)

	// Verify all services were created
	visualizerService, playback := app.GetServices()
	assert.NotNil(t, visualizerService)
	assert.NotNil(t, playback)

	// Verify event bus was created
	assert.NotNil(t, app.GetEventBus())

	// Verify Fyne app was created
	assert.NotNil(t, app.GetFyneApp())

	assert.Equal(t, "circular", app.GetVisualizer().ModuleName())
	assert.False(t, app.GetVisualizer().IsActive())

	// Cleanup
	err = app.Shutdown()
	assert.NoError(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "com.govis.app", cfg.AppID)
	assert.Equal(t, "GoVis", cfg.AppName)
	assert.Equal(t, 2048, cfg.FFTSize)
	assert.Zero(t, cfg.SampleRate, "output rate follows the first track")
	assert.Equal(t, "circular", cfg.Module)
	assert.True(t, cfg.Remember)
	assert.True(t, cfg.Autostart)
	assert.False(t, cfg.UseMockAudio)
}

func TestFromFile(t *testing.T) {
	fc := config.Default()
	fc.Log.Level = "debug"
	fc.Circular.Amount = 48
	fc.Spectrum.Bars = 32
	fc.Window.Width = 800

	cfg := FromFile(fc)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 48, cfg.Modules.Circular.Amount)
	assert.Equal(t, 32, cfg.Modules.Spectrum.Bars)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 255.0, cfg.Analyzer.Threshold)
}

func TestApplicationLifecycle(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreExisting(), testutil.IgnoreFyne())

	app, err := NewApplication(newTestConfig())
	require.NoError(t, err)

	// Run would normally block, but we're not calling it in test
	app.onStarted()
	assert.True(t, app.GetVisualizer().IsActive())

	// Shutdown
	err = app.Shutdown()
	assert.NoError(t, err)
	assert.False(t, app.GetVisualizer().IsActive())

	// Shutdown again should not panic
	err = app.Shutdown()
	assert.NoError(t, err)
}

func TestApplicationNoAutostart(t *testing.T) {
	cfg := newTestConfig()
	cfg.Autostart = false

	app, err := NewApplication(cfg)
	require.NoError(t, err)
	defer app.Shutdown()

	app.onStarted()
	assert.False(t, app.GetVisualizer().IsActive())
}

func TestApplicationStartupFile(t *testing.T) {
	cfg := newTestConfig()
	cfg.File = filepath.Join("music", "intro.mp3")

	app, err := NewApplication(cfg)
	require.NoError(t, err)
	defer app.Shutdown()

	app.onStarted()

	_, playback := app.GetServices()
	track, ok := playback.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "intro", track.Title)
	assert.Equal(t, domain.StatusPlaying, playback.Status())
	assert.Equal(t, cfg.File, playback.LastFile())
}

func TestApplicationRestoresPreferences(t *testing.T) {
	fyneApp := test.NewApp()

	cfg := newTestConfig()
	cfg.TestFyneApp = fyneApp
	first, err := NewApplication(cfg)
	require.NoError(t, err)

	visualizerService, _ := first.GetServices()
	require.NoError(t, visualizerService.UseModule("spectrum"))
	visualizerService.ToggleAnalyzer()
	visualizerService.ToggleFPS()
	require.NoError(t, first.Shutdown())

	second, err := NewApplication(cfg)
	require.NoError(t, err)
	defer second.Shutdown()

	vis := second.GetVisualizer()
	assert.Equal(t, "spectrum", vis.ModuleName())
	assert.True(t, vis.AnalyzerEnabled())
	assert.False(t, vis.FPSVisible())
}

func TestApplicationOverridesWin(t *testing.T) {
	fyneApp := test.NewApp()
	fyneApp.Preferences().SetString("visualizer.module", "spectrum")

	cfg := newTestConfig()
	cfg.TestFyneApp = fyneApp
	cfg.Overrides = Overrides{Module: "analyzer", Analyzer: true, NoFPS: true}

	app, err := NewApplication(cfg)
	require.NoError(t, err)
	defer app.Shutdown()

	vis := app.GetVisualizer()
	assert.Equal(t, "analyzer", vis.ModuleName())
	assert.True(t, vis.AnalyzerEnabled())
	assert.False(t, vis.FPSVisible())
}

func TestApplicationWithoutRemember(t *testing.T) {
	fyneApp := test.NewApp()
	fyneApp.Preferences().SetString("visualizer.module", "spectrum")

	cfg := newTestConfig()
	cfg.TestFyneApp = fyneApp
	cfg.Remember = false
	cfg.ShowAnalyzer = true

	app, err := NewApplication(cfg)
	require.NoError(t, err)
	defer app.Shutdown()

	vis := app.GetVisualizer()
	assert.Equal(t, "circular", vis.ModuleName())
	assert.True(t, vis.AnalyzerEnabled())

	visualizerService, _ := app.GetServices()
	require.NoError(t, visualizerService.UseModule("analyzer"))
	assert.Equal(t, "spectrum", fyneApp.Preferences().String("visualizer.module"))
}

func TestApplicationUnknownModule(t *testing.T) {
	cfg := newTestConfig()
	cfg.Overrides.Module = "waveform"

	app, err := NewApplication(cfg)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.Equal(t, "circular", app.GetVisualizer().ModuleName())
}

func TestVersionInfo(t *testing.T) {
	info := VersionInfo{Version: "1.2.0", GitCommit: "abc123", BuildTime: "2026-01-01"}
	assert.Equal(t, "GoVis 1.2.0 (commit: abc123, built: 2026-01-01)", info.FullString())

	info.GitTag = "v1.2.1"
	assert.Contains(t, info.FullString(), "v1.2.1")
}

func TestVersionInfoFromBuild(t *testing.T) {
	info := VersionInfo{Version: "dev", GitCommit: "unknown", BuildTime: "unknown"}
	info.fillFromBuild([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
	})
	assert.Equal(t, "0123456789ab", info.GitCommit)
	assert.Equal(t, "2026-10-01T12:00:00Z", info.BuildTime)

	stamped := VersionInfo{GitCommit: "abc123", BuildTime: "yesterday"}
	stamped.fillFromBuild([]debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}})
	assert.Equal(t, "abc123", stamped.GitCommit, "ldflags win over the VCS stamp")
}
