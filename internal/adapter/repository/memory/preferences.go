// Package memory holds repositories backed by in-process stores. The
// preferences repository delegates to Fyne's preferences, which Fyne persists
// per application ID.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

const (
	keyModule   = "visualizer.module"
	keyAnalyzer = "visualizer.analyzer"
	keyFPS      = "visualizer.fps"
	keyLastFile = "playback.last_file"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveModule persists the name of the active module.
func (r *PreferencesRepository) SaveModule(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyModule, name)
	return nil
}

// LoadModule retrieves the saved module name.
func (r *PreferencesRepository) LoadModule() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(keyModule), nil
}

// SaveAnalyzerEnabled persists the analyzer overlay flag.
func (r *PreferencesRepository) SaveAnalyzerEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyAnalyzer, enabled)
	return nil
}

// LoadAnalyzerEnabled retrieves the analyzer overlay flag.
func (r *PreferencesRepository) LoadAnalyzerEnabled() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.BoolWithFallback(keyAnalyzer, false), nil
}

// SaveFPSVisible persists the FPS counter flag.
func (r *PreferencesRepository) SaveFPSVisible(visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyFPS, visible)
	return nil
}

// LoadFPSVisible retrieves the FPS counter flag.
func (r *PreferencesRepository) LoadFPSVisible() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.BoolWithFallback(keyFPS, true), nil
}

// SaveLastFile persists the path of the last opened audio file.
func (r *PreferencesRepository) SaveLastFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyLastFile, path)
	return nil
}

// LoadLastFile retrieves the last opened audio file path.
func (r *PreferencesRepository) LoadLastFile() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(keyLastFile), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{keyModule, keyAnalyzer, keyFPS, keyLastFile} {
		r.prefs.RemoveValue(key)
	}
	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
