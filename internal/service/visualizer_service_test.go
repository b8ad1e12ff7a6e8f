package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/adapter/audio/mock"
	canvasmock "github.com/tejashwikalptaru/govis/internal/adapter/canvas/mock"
	"github.com/tejashwikalptaru/govis/internal/adapter/frame"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
	"github.com/tejashwikalptaru/govis/internal/visualizer/modules"
)

// Helper to create a test visualizer service
func newTestVisualizerService() (*VisualizerService, *frame.Manual, *mockPreferencesRepository) {
	scheduler := frame.NewManual()
	vis := visualizer.New(logger.NewTestLogger(), canvasmock.NewCanvas(640, 480), mock.NewAnalyser(1024), scheduler)
	vis.SetClock(frame.NewSimulatedClock(0))

	prefs := newMockPreferencesRepository()
	registry := modules.NewRegistry(modules.DefaultSettings())
	return NewVisualizerService(logger.NewTestLogger(), vis, registry, prefs), scheduler, prefs
}

func TestVisualizerService_UseModule(t *testing.T) {
	service, _, prefs := newTestVisualizerService()

	require.NoError(t, service.UseModule("spectrum"))
	assert.Equal(t, "spectrum", service.Visualizer().ModuleName())
	assert.Equal(t, "spectrum", prefs.module)
}

func TestVisualizerService_UseModule_Unknown(t *testing.T) {
	service, _, prefs := newTestVisualizerService()

	err := service.UseModule("laser-show")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownModule)

	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "UseModule", svcErr.Op)
	assert.Empty(t, prefs.module, "failed selection is not persisted")
}

func TestVisualizerService_UseModule_PreferenceFailureIsNotFatal(t *testing.T) {
	service, _, prefs := newTestVisualizerService()
	prefs.fail = true

	require.NoError(t, service.UseModule("circular"))
	assert.Equal(t, "circular", service.Visualizer().ModuleName())
}

func TestVisualizerService_NextModule(t *testing.T) {
	service, _, _ := newTestVisualizerService()

	var seen []modules.Type
	for i := 0; i < 4; i++ {
		next, err := service.NextModule()
		require.NoError(t, err)
		seen = append(seen, next)
	}

	assert.Equal(t, []modules.Type{
		modules.TypeCircular,
		modules.TypeSpectrum,
		modules.TypeAnalyzer,
		modules.TypeCircular,
	}, seen)
}

func TestVisualizerService_ToggleRunning(t *testing.T) {
	service, scheduler, _ := newTestVisualizerService()
	require.NoError(t, service.UseModule("circular"))

	assert.True(t, service.ToggleRunning())
	assert.True(t, service.Visualizer().IsActive())
	assert.Equal(t, 1, scheduler.Pending())

	assert.False(t, service.ToggleRunning())
	assert.False(t, service.Visualizer().IsActive())
}

func TestVisualizerService_TogglesPersist(t *testing.T) {
	service, _, prefs := newTestVisualizerService()

	assert.True(t, service.ToggleAnalyzer())
	assert.True(t, prefs.analyzer)
	assert.False(t, service.ToggleAnalyzer())
	assert.False(t, prefs.analyzer)

	assert.False(t, service.ToggleFPS())
	assert.False(t, prefs.fps)
}

func TestVisualizerService_RestorePreferences(t *testing.T) {
	service, _, prefs := newTestVisualizerService()
	prefs.module = "spectrum"
	prefs.analyzer = true
	prefs.fps = false

	require.NoError(t, service.RestorePreferences("circular"))

	vis := service.Visualizer()
	assert.Equal(t, "spectrum", vis.ModuleName())
	assert.True(t, vis.AnalyzerEnabled())
	assert.False(t, vis.FPSVisible())
}

func TestVisualizerService_RestorePreferences_Fallbacks(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		service, _, _ := newTestVisualizerService()
		require.NoError(t, service.RestorePreferences("circular"))
		assert.Equal(t, "circular", service.Visualizer().ModuleName())
	})

	t.Run("saved module gone", func(t *testing.T) {
		service, _, prefs := newTestVisualizerService()
		prefs.module = "retired"
		require.NoError(t, service.RestorePreferences("spectrum"))
		assert.Equal(t, "spectrum", service.Visualizer().ModuleName())
	})

	t.Run("repository failing", func(t *testing.T) {
		service, _, prefs := newTestVisualizerService()
		prefs.fail = true
		require.NoError(t, service.RestorePreferences("circular"))
		assert.Equal(t, "circular", service.Visualizer().ModuleName())
		assert.True(t, service.Visualizer().FPSVisible())
	})
}

func TestVisualizerService_Modules(t *testing.T) {
	service, _, _ := newTestVisualizerService()

	infos := service.Modules()
	require.Len(t, infos, 3)
	assert.Equal(t, "Circular Bars", infos[0].Name)
}
