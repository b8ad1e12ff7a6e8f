// Package analyser computes byte frequency spectra from a stream of PCM samples,
// with the same windowing, smoothing and decibel mapping as a Web Audio
// AnalyserNode.
package analyser

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// FFT size limits accepted by NewAnalyser.
const (
	MinFFTSize = 32
	MaxFFTSize = 32768
)

// Defaults of a fresh analyser.
const (
	DefaultFFTSize     = 2048
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// Analyser keeps the last FFTSize mono samples written to it and turns them
// into a spectrum whenever ByteFrequencyData is called.
//
// Thread-safety: This implementation is thread-safe. Samples are usually
// written from the playback goroutine while the frame loop reads spectra.
type Analyser struct {
	mu      sync.Mutex
	fftSize int
	fft     *fourier.FFT
	window  []float64

	ring []float64
	pos  int

	input    []float64
	coeffs   []complex128
	smoothed []float64

	smoothing float64
	minDB     float64
	maxDB     float64
}

// ValidateFFTSize reports whether n is a power of two within [MinFFTSize, MaxFFTSize].
func ValidateFFTSize(n int) error {
	if n < MinFFTSize || n > MaxFFTSize || bits.OnesCount(uint(n)) != 1 {
		return fmt.Errorf("%w: %d (want a power of two in [%d, %d])", domain.ErrInvalidFFTSize, n, MinFFTSize, MaxFFTSize)
	}
	return nil
}

// NewAnalyser creates an analyser with the given FFT window size.
func NewAnalyser(fftSize int) (*Analyser, error) {
	if err := ValidateFFTSize(fftSize); err != nil {
		return nil, err
	}

	coeffs := make([]float64, fftSize)
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.Blackman(coeffs)

	return &Analyser{
		fftSize:   fftSize,
		fft:       fourier.NewFFT(fftSize),
		window:    coeffs,
		ring:      make([]float64, fftSize),
		input:     make([]float64, fftSize),
		coeffs:    make([]complex128, fftSize/2+1),
		smoothed:  make([]float64, fftSize/2),
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
	}, nil
}

// SetSmoothing sets the time constant blending each spectrum with the previous
// one. 0 disables smoothing.
func (a *Analyser) SetSmoothing(tc float64) error {
	if tc < 0 || tc > 1 || math.IsNaN(tc) {
		return domain.NewValidationError("smoothing", tc, "must be within [0, 1]")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.smoothing = tc
	return nil
}

// SetDecibelRange sets the levels mapped to byte values 0 and 255.
func (a *Analyser) SetDecibelRange(minDB, maxDB float64) error {
	if !(minDB < maxDB) {
		return domain.NewValidationError("decibels", [2]float64{minDB, maxDB}, "min must be below max")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.minDB, a.maxDB = minDB, maxDB
	return nil
}

func (a *Analyser) FFTSize() int {
	return a.fftSize
}

func (a *Analyser) FrequencyBinCount() int {
	return a.fftSize / 2
}

// Write appends mono samples in [-1, 1].
func (a *Analyser) Write(samples ...float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.push(float64(s))
	}
}

// WritePCM16 appends interleaved signed 16-bit little-endian frames, mixing
// the channels down to mono. A trailing partial frame is dropped.
func (a *Analyser) WritePCM16(data []byte, channels int) {
	if channels <= 0 {
		return
	}
	frameSize := 2 * channels

	a.mu.Lock()
	defer a.mu.Unlock()
	for off := 0; off+frameSize <= len(data); off += frameSize {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(int16(binary.LittleEndian.Uint16(data[off+2*ch:]))) / 32768
		}
		a.push(sum / float64(channels))
	}
}

// push stores one sample. Caller must hold a.mu.
func (a *Analyser) push(v float64) {
	a.ring[a.pos] = v
	a.pos = (a.pos + 1) % a.fftSize
}

// Reset forgets buffered samples and smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.ring)
	clear(a.smoothed)
	a.pos = 0
}

// ByteFrequencyData computes the spectrum of the buffered samples and writes
// min(len(dst), FrequencyBinCount()) bytes into dst.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Oldest sample first.
	for i := 0; i < a.fftSize; i++ {
		a.input[i] = a.ring[(a.pos+i)%a.fftSize] * a.window[i]
	}
	a.fft.Coefficients(a.coeffs, a.input)

	scale := 1 / float64(a.fftSize)
	byteScale := 255 / (a.maxDB - a.minDB)
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) * scale
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag

		if k >= len(dst) {
			continue
		}
		dst[k] = toByte(a.smoothed[k], a.minDB, byteScale)
	}
}

func toByte(mag, minDB, byteScale float64) byte {
	if mag <= 0 {
		return 0
	}
	v := math.Floor(byteScale * (20*math.Log10(mag) - minDB))
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}

// Verify interface implementation at compile time.
var _ ports.SpectrumAnalyser = (*Analyser)(nil)
