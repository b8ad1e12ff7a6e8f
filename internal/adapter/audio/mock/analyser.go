// Package mock provides in-memory implementations of the audio ports.
// They are used for testing the visualizer and the services without decoding
// or playing real audio.
package mock

import (
	"sync"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Analyser is a scripted SpectrumAnalyser.
// Every ByteFrequencyData call copies the configured levels into dst.
//
// Thread-safety: This implementation is thread-safe.
type Analyser struct {
	mu      sync.Mutex
	fftSize int
	levels  []byte
	pulls   int
}

// NewAnalyser creates an analyser reporting fftSize/2 silent bins.
func NewAnalyser(fftSize int) *Analyser {
	return &Analyser{
		fftSize: fftSize,
		levels:  make([]byte, fftSize/2),
	}
}

// SetLevels replaces the bin magnitudes. Extra values are ignored, missing
// ones are zero.
func (a *Analyser) SetLevels(levels []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.levels)
	copy(a.levels, levels)
}

// SetConstant sets every bin to v.
func (a *Analyser) SetConstant(v byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.levels {
		a.levels[i] = v
	}
}

// Pulls returns how many times ByteFrequencyData was called.
func (a *Analyser) Pulls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pulls
}

func (a *Analyser) FFTSize() int {
	return a.fftSize
}

func (a *Analyser) FrequencyBinCount() int {
	return a.fftSize / 2
}

func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pulls++
	copy(dst, a.levels)
}

// Verify interface implementation at compile time.
var _ ports.SpectrumAnalyser = (*Analyser)(nil)
