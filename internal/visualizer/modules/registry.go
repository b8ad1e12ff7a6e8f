// Package modules provides the built-in visualizer modules and the registry
// that maps module names to factories.
package modules

import (
	"fmt"
	"slices"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
)

// Type names a registered module.
type Type string

// Built-in module types.
const (
	TypeCircular Type = "circular"
	TypeSpectrum Type = "spectrum"
	TypeAnalyzer Type = "analyzer"
)

// Info describes a registered module.
type Info struct {
	Type Type
	Name string
}

// Settings holds the options of the configurable built-in modules.
type Settings struct {
	Circular CircularOptions
	Spectrum SpectrumOptions
}

// DefaultSettings returns the stock options for every module.
func DefaultSettings() Settings {
	return Settings{
		Circular: DefaultCircularOptions(),
		Spectrum: DefaultSpectrumOptions(),
	}
}

// Registry maps module names to factories, keeping registration order.
// It is not safe for concurrent registration; build it once at startup.
type Registry struct {
	order     []Info
	factories map[Type]visualizer.Factory
}

// NewRegistry creates a registry holding the built-in modules.
func NewRegistry(settings Settings) *Registry {
	r := &Registry{factories: make(map[Type]visualizer.Factory)}
	r.Register(TypeCircular, "Circular Bars", CircularFactory(settings.Circular))
	r.Register(TypeSpectrum, "Spectrum Bars", SpectrumFactory(settings.Spectrum))
	r.Register(TypeAnalyzer, "Analyzer", visualizer.NewAnalyzerModule)
	return r
}

// Register adds or replaces a module.
func (r *Registry) Register(t Type, name string, factory visualizer.Factory) {
	if _, exists := r.factories[t]; !exists {
		r.order = append(r.order, Info{Type: t, Name: name})
	} else {
		idx := slices.IndexFunc(r.order, func(info Info) bool { return info.Type == t })
		r.order[idx].Name = name
	}
	r.factories[t] = factory
}

// Types returns the registered modules in registration order.
func (r *Registry) Types() []Info {
	return slices.Clone(r.order)
}

// Factory looks up a module by name.
func (r *Registry) Factory(name string) (visualizer.Factory, error) {
	f, ok := r.factories[Type(name)]
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, domain.ErrUnknownModule)
	}
	return f, nil
}

// Next returns the module registered after name, wrapping around. Unknown names
// yield the first module.
func (r *Registry) Next(name string) Type {
	if len(r.order) == 0 {
		return ""
	}
	idx := slices.IndexFunc(r.order, func(info Info) bool { return info.Type == Type(name) })
	return r.order[(idx+1)%len(r.order)].Type
}
