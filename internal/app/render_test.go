package app

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
)

// writeTone writes a mono 16-bit sine wave.
func writeTone(t *testing.T, rate int, freq float64, d float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	n := int(float64(rate) * d)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, n),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(math.Sin(2*math.Pi*freq*float64(i)/float64(rate)) * 20000)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func smallRender(t *testing.T) RenderOptions {
	opts := DefaultRenderOptions()
	opts.Width, opts.Height = 160, 100
	opts.FPS = 10
	opts.FFTSize = 256
	opts.OutDir = filepath.Join(t.TempDir(), "out")
	return opts
}

func TestRenderSilence(t *testing.T) {
	opts := smallRender(t)
	opts.Frames = 3

	paths, err := Render(context.Background(), logger.NewTestLogger(), opts)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(opts.OutDir, "frame_00002.png"), paths[2])
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRenderWholeFile(t *testing.T) {
	opts := smallRender(t)
	opts.File = writeTone(t, 8000, 440, 0.5)
	opts.Module = "spectrum"
	opts.Analyzer = true

	paths, err := Render(context.Background(), nil, opts)
	require.NoError(t, err)
	assert.Len(t, paths, 5)
}

func TestRenderFrameLimit(t *testing.T) {
	opts := smallRender(t)
	opts.File = writeTone(t, 8000, 440, 0.5)
	opts.Frames = 8

	paths, err := Render(context.Background(), nil, opts)
	require.NoError(t, err)
	assert.Len(t, paths, 8)
}

func TestRenderErrors(t *testing.T) {
	t.Run("no input and no frames", func(t *testing.T) {
		_, err := Render(context.Background(), nil, smallRender(t))
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown module", func(t *testing.T) {
		opts := smallRender(t)
		opts.Frames = 1
		opts.Module = "waveform"
		_, err := Render(context.Background(), nil, opts)
		assert.ErrorIs(t, err, domain.ErrUnknownModule)
	})

	t.Run("missing file", func(t *testing.T) {
		opts := smallRender(t)
		opts.File = filepath.Join(t.TempDir(), "missing.wav")
		_, err := Render(context.Background(), nil, opts)
		var aerr *domain.AudioSourceError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		opts := smallRender(t)
		opts.Frames = 4
		paths, err := Render(ctx, nil, opts)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, paths)
	})
}
