// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

// PreferencesRepository handles persistence of visualizer display preferences.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveModule persists the name of the active module.
	SaveModule(name string) error

	// LoadModule retrieves the saved module name.
	// Returns an empty string (not an error) when nothing is saved.
	LoadModule() (string, error)

	// SaveAnalyzerEnabled persists the analyzer overlay flag.
	SaveAnalyzerEnabled(enabled bool) error

	// LoadAnalyzerEnabled retrieves the analyzer overlay flag (default false).
	LoadAnalyzerEnabled() (bool, error)

	// SaveFPSVisible persists the FPS counter flag.
	SaveFPSVisible(visible bool) error

	// LoadFPSVisible retrieves the FPS counter flag (default true).
	LoadFPSVisible() (bool, error)

	// SaveLastFile persists the path of the last opened audio file.
	SaveLastFile(path string) error

	// LoadLastFile retrieves the last opened audio file path.
	// Returns an empty string when nothing is saved.
	LoadLastFile() (string, error)
}
