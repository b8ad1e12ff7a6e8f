package player

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func openDecoder(t *testing.T, path string) decoder {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	dec, err := newDecoder(f)
	require.NoError(t, err)
	return dec
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("song.mp3"))
	assert.True(t, IsSupported("/music/Song.FLAC"))
	assert.True(t, IsSupported("a.ogg"))
	assert.True(t, IsSupported("a.wav"))
	assert.False(t, IsSupported("a.txt"))
	assert.False(t, IsSupported("noext"))
}

func TestNewDecoder_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = newDecoder(f)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNewDecoder_InvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff data"), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = newDecoder(f)
	assert.Error(t, err)
}

func TestWAVDecoder_Mono16(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	dec := openDecoder(t, writeWAV(t, "mono.wav", 8000, 1, samples))

	assert.Equal(t, "wav", dec.Format())
	assert.Equal(t, 8000, dec.SampleRate())
	assert.Equal(t, 1, dec.Channels())
	assert.Equal(t, int64(len(samples)*2), dec.Length())

	got, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Equal(t, pcmBytes(samples...), got)
}

func TestWAVDecoder_SmallReads(t *testing.T) {
	samples := []int16{1, 2, 3, 4, 5, 6}
	dec := openDecoder(t, writeWAV(t, "stereo.wav", 44100, 2, samples))

	var got []byte
	buf := make([]byte, 3)
	for {
		n, err := dec.Read(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, pcmBytes(samples...), got)
}

func TestWAVSample(t *testing.T) {
	tests := []struct {
		name     string
		src      []byte
		bitDepth int
		want     int
	}{
		{"8-bit midpoint", []byte{128}, 8, 0},
		{"8-bit max", []byte{255}, 8, 127 << 8},
		{"8-bit min", []byte{0}, 8, -32768},
		{"16-bit", []byte{0x34, 0x12}, 16, 0x1234},
		{"16-bit negative", []byte{0xff, 0xff}, 16, -1},
		{"24-bit", []byte{0x00, 0x34, 0x12}, 24, 0x1234},
		{"24-bit negative", []byte{0x00, 0x00, 0x80}, 24, -32768},
		{"32-bit", []byte{0x00, 0x00, 0x34, 0x12}, 32, 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wavSample(tt.src, tt.bitDepth); got != tt.want {
				t.Errorf("wavSample(%v, %d) = %d, want %d", tt.src, tt.bitDepth, got, tt.want)
			}
		})
	}
}

func TestPutSample_Clamps(t *testing.T) {
	buf := make([]byte, 2)

	putSample(buf, 40000)
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(buf)))

	putSample(buf, -40000)
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(buf)))
}

func TestToStereo(t *testing.T) {
	t.Run("mono is duplicated", func(t *testing.T) {
		dec := openDecoder(t, writeWAV(t, "mono.wav", 44100, 1, []int16{10, -20, 30}))
		st, err := toStereo(dec)
		require.NoError(t, err)

		assert.Equal(t, 2, st.Channels())
		assert.Equal(t, int64(12), st.Length())

		got, err := io.ReadAll(st)
		require.NoError(t, err)
		assert.Equal(t, pcmBytes(10, 10, -20, -20, 30, 30), got)
	})

	t.Run("stereo passes through", func(t *testing.T) {
		dec := openDecoder(t, writeWAV(t, "stereo.wav", 44100, 2, []int16{1, 2}))
		st, err := toStereo(dec)
		require.NoError(t, err)
		assert.Same(t, dec, st)
	})

	t.Run("surround is rejected", func(t *testing.T) {
		dec := openDecoder(t, writeWAV(t, "surround.wav", 44100, 6, make([]int16, 12)))
		_, err := toStereo(dec)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}
