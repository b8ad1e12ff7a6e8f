package player

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

func TestOpenStream(t *testing.T) {
	// One second of mono audio at 8 kHz.
	path := writeWAV(t, "One Second.wav", 8000, 1, make([]int16, 8000))

	s, err := OpenStream(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "One Second", s.Track.Title, "untagged files use the file name")
	assert.Equal(t, "wav", s.Track.Format)
	assert.Equal(t, 8000, s.Track.SampleRate)
	assert.Equal(t, 2, s.Track.Channels)
	assert.Equal(t, time.Second, s.Track.Duration)

	pcm, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Len(t, pcm, 8000*2*2)
}

func TestOpenStream_Errors(t *testing.T) {
	_, err := OpenStream("")
	assert.ErrorIs(t, err, domain.ErrInvalidFilePath)

	_, err = OpenStream("/nonexistent/track.ogg")
	var srcErr *domain.AudioSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "load", srcErr.Op)
}
