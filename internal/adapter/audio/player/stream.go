package player

import (
	"io"
	"os"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// Stream is an audio file decoded to interleaved signed 16-bit stereo PCM.
type Stream struct {
	io.Reader
	Track domain.Track

	file *os.File
}

// OpenStream opens and decodes the file at path. Tags fill the descriptive
// fields of Track; Duration is zero when the decoder cannot tell the length.
func OpenStream(path string) (*Stream, error) {
	if path == "" {
		return nil, domain.ErrInvalidFilePath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewAudioSourceError("load", path, "cannot open file", err)
	}

	dec, err := newDecoder(f)
	if err == nil {
		dec, err = toStereo(dec)
	}
	if err != nil {
		_ = f.Close()
		return nil, domain.NewAudioSourceError("load", path, "cannot decode file", err)
	}

	track := domain.Track{
		FilePath:   path,
		Format:     dec.Format(),
		SampleRate: dec.SampleRate(),
		Channels:   outputChannels,
	}
	if frameBytes := int64(track.SampleRate * outputChannels * bytesPerSample); frameBytes > 0 {
		track.Duration = time.Duration(dec.Length() * int64(time.Second) / frameBytes)
	}
	readTags(path, &track)

	return &Stream{Reader: dec, Track: track, file: f}, nil
}

// Close closes the underlying file.
func (s *Stream) Close() error {
	return s.file.Close()
}
