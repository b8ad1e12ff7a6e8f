package analyser

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

func sine(n, bin, fftSize int, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(fftSize)))
	}
	return out
}

func TestValidateFFTSize(t *testing.T) {
	for _, ok := range []int{32, 256, 2048, 32768} {
		assert.NoError(t, ValidateFFTSize(ok), ok)
	}
	for _, bad := range []int{0, 16, 1000, 65536, -2048} {
		assert.True(t, errors.Is(ValidateFFTSize(bad), domain.ErrInvalidFFTSize), bad)
	}

	_, err := NewAnalyser(1000)
	assert.ErrorIs(t, err, domain.ErrInvalidFFTSize)
}

func TestAnalyser_Silence(t *testing.T) {
	a, err := NewAnalyser(256)
	require.NoError(t, err)
	assert.Equal(t, 128, a.FrequencyBinCount())

	dst := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(dst)
	for i, v := range dst {
		assert.Zero(t, v, "bin %d", i)
	}
}

func TestAnalyser_SinePeaksAtItsBin(t *testing.T) {
	const fftSize, bin = 1024, 40
	a, err := NewAnalyser(fftSize)
	require.NoError(t, err)

	a.Write(sine(fftSize, bin, fftSize, 1)...)
	dst := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(dst)

	assert.Equal(t, byte(255), dst[bin])
	for i, v := range dst {
		assert.LessOrEqual(t, v, dst[bin], "bin %d", i)
	}
	assert.Less(t, dst[bin+100], byte(128))
	assert.Less(t, dst[bin-30], byte(128))
}

func TestAnalyser_SmoothingDecays(t *testing.T) {
	const fftSize, bin = 512, 20
	a, err := NewAnalyser(fftSize)
	require.NoError(t, err)
	require.NoError(t, a.SetDecibelRange(-100, 0))

	dst := make([]byte, a.FrequencyBinCount())
	a.Write(sine(fftSize, bin, fftSize, 1)...)
	a.ByteFrequencyData(dst)
	loud := dst[bin]

	a.Write(make([]float32, fftSize)...)
	a.ByteFrequencyData(dst)
	assert.Positive(t, dst[bin], "smoothing must keep some energy")
	assert.Less(t, dst[bin], loud)

	require.NoError(t, a.SetSmoothing(0))
	a.ByteFrequencyData(dst)
	assert.Zero(t, dst[bin])
}

func TestAnalyser_ShortDestination(t *testing.T) {
	a, err := NewAnalyser(64)
	require.NoError(t, err)

	a.Write(sine(64, 2, 64, 1)...)
	dst := make([]byte, 4)
	assert.NotPanics(t, func() { a.ByteFrequencyData(dst) })
	assert.Equal(t, byte(255), dst[2])
}

func TestAnalyser_WritePCM16(t *testing.T) {
	const fftSize, bin = 256, 8
	pcm := func(a *Analyser) {
		wave := sine(fftSize, bin, fftSize, 0.9)
		data := make([]byte, fftSize*4+1) // stereo, plus a dangling byte
		for i, s := range wave {
			v := uint16(int16(s * 32767))
			binary.LittleEndian.PutUint16(data[i*4:], v)
			binary.LittleEndian.PutUint16(data[i*4+2:], v)
		}
		a.WritePCM16(data, 2)
	}

	a, err := NewAnalyser(fftSize)
	require.NoError(t, err)
	pcm(a)

	dst := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(dst)
	assert.Equal(t, byte(255), dst[bin])

	a.Reset()
	a.ByteFrequencyData(dst)
	assert.Zero(t, dst[bin])

	assert.NotPanics(t, func() { a.WritePCM16([]byte{1, 2, 3}, 0) })
}

func TestAnalyser_Settings(t *testing.T) {
	a, err := NewAnalyser(DefaultFFTSize)
	require.NoError(t, err)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, a.SetSmoothing(1.5), &vErr)
	assert.ErrorAs(t, a.SetDecibelRange(-30, -100), &vErr)
	assert.NoError(t, a.SetSmoothing(1))
	assert.NoError(t, a.SetDecibelRange(-90, -10))
}
