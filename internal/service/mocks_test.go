package service

import (
	"errors"
	"sync"
)

var errPrefs = errors.New("preferences unavailable")

// Mock preferences repository for testing
type mockPreferencesRepository struct {
	mu       sync.RWMutex
	module   string
	analyzer bool
	fps      bool
	lastFile string
	fail     bool

	saves int
}

func newMockPreferencesRepository() *mockPreferencesRepository {
	return &mockPreferencesRepository{fps: true}
}

func (m *mockPreferencesRepository) SaveModule(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.fail {
		return errPrefs
	}
	m.module = name
	return nil
}

func (m *mockPreferencesRepository) LoadModule() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail {
		return "", errPrefs
	}
	return m.module, nil
}

func (m *mockPreferencesRepository) SaveAnalyzerEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.fail {
		return errPrefs
	}
	m.analyzer = enabled
	return nil
}

func (m *mockPreferencesRepository) LoadAnalyzerEnabled() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail {
		return false, errPrefs
	}
	return m.analyzer, nil
}

func (m *mockPreferencesRepository) SaveFPSVisible(visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.fail {
		return errPrefs
	}
	m.fps = visible
	return nil
}

func (m *mockPreferencesRepository) LoadFPSVisible() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail {
		return false, errPrefs
	}
	return m.fps, nil
}

func (m *mockPreferencesRepository) SaveLastFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.fail {
		return errPrefs
	}
	m.lastFile = path
	return nil
}

func (m *mockPreferencesRepository) LoadLastFile() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail {
		return "", errPrefs
	}
	return m.lastFile, nil
}
